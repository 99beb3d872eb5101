// Package gateway adapts the chat surface to the core services. The actual
// chat connection lives outside this module; the gateway receives parsed
// events, enforces permission tiers, and maps each command to exactly one
// core operation. Replies are plain text — rendering (embeds, mentions) is
// the connector's concern.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/staffworks/staffbot/internal/app/accrual"
	"github.com/staffworks/staffbot/internal/app/invites"
	"github.com/staffworks/staffbot/internal/app/redemption"
	"github.com/staffworks/staffbot/internal/domain"
	"github.com/staffworks/staffbot/internal/infra/metrics"
)

// Command is one parsed chat command.
type Command struct {
	AuthorID  int64
	ChannelID string
	Name      string
	Args      []string
}

// Permissions decides the admin tier. The owner is always an admin.
type Permissions struct {
	OwnerID  int64
	AdminIDs map[int64]struct{}
}

// IsAdmin reports whether userID may run admin commands.
func (p Permissions) IsAdmin(userID int64) bool {
	if userID == p.OwnerID {
		return true
	}
	_, ok := p.AdminIDs[userID]
	return ok
}

// Dispatcher routes commands and message events into the core.
type Dispatcher struct {
	ledger     domain.LedgerStore
	shop       domain.ShopStore
	workflow   *redemption.Workflow
	rewarder   *accrual.MessageRewarder
	invites    *invites.Service
	textScope  *accrual.ChannelScope
	voiceScope *accrual.ChannelScope
	perms      Permissions
}

// NewDispatcher wires the command surface.
func NewDispatcher(ledger domain.LedgerStore, shop domain.ShopStore, workflow *redemption.Workflow, rewarder *accrual.MessageRewarder, inv *invites.Service, textScope, voiceScope *accrual.ChannelScope, perms Permissions) *Dispatcher {
	return &Dispatcher{
		ledger:     ledger,
		shop:       shop,
		workflow:   workflow,
		rewarder:   rewarder,
		invites:    inv,
		textScope:  textScope,
		voiceScope: voiceScope,
		perms:      perms,
	}
}

// OnMessage feeds one non-command chat message into the accrual engine.
// Bot-authored messages must be filtered by the connector before this call.
func (d *Dispatcher) OnMessage(ctx context.Context, authorID int64, channelID string) error {
	return d.rewarder.RecordMessage(ctx, authorID, channelID)
}

// ParseCommand splits a prefixed message into a Command. ok is false when
// the content does not start with the prefix.
func ParseCommand(authorID int64, channelID, content, prefix string) (Command, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return Command{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return Command{}, false
	}
	return Command{
		AuthorID:  authorID,
		ChannelID: channelID,
		Name:      strings.ToLower(fields[0]),
		Args:      fields[1:],
	}, true
}

// Dispatch executes one command and returns the reply text. Domain errors
// (not found, insufficient balance, permission denied, invalid state) come
// back as errors for the connector to render as rejections.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (string, error) {
	metrics.Commands.WithLabelValues(cmd.Name).Inc()

	switch cmd.Name {
	case "balance":
		return d.cmdBalance(ctx, cmd)
	case "shop":
		return d.cmdShop(ctx)
	case "buy":
		return d.cmdBuy(ctx, cmd)
	case "vc_stats":
		return d.cmdVCStats(ctx, cmd)
	case "invites":
		return d.cmdInvites(ctx, cmd)
	case "help":
		return d.cmdHelp(cmd), nil
	}

	// Everything below is admin tier.
	if !d.perms.IsAdmin(cmd.AuthorID) {
		return "", domain.ErrPermissionDenied
	}

	switch cmd.Name {
	case "accept":
		return d.cmdAccept(ctx, cmd)
	case "deny":
		return d.cmdDeny(ctx, cmd)
	case "add_points":
		return d.cmdAdjustPoints(ctx, cmd, domain.TxAdminAdd)
	case "remove_points":
		return d.cmdAdjustPoints(ctx, cmd, domain.TxAdminRemove)
	case "reset_points":
		return d.cmdResetPoints(ctx, cmd)
	case "enable_channel":
		return d.cmdScope(cmd, d.textScope, true, "message points")
	case "disable_channel":
		return d.cmdScope(cmd, d.textScope, false, "message points")
	case "enable_vc":
		return d.cmdScope(cmd, d.voiceScope, true, "VC points")
	case "disable_vc":
		return d.cmdScope(cmd, d.voiceScope, false, "VC points")
	case "add_shop":
		return d.cmdAddShop(ctx, cmd)
	case "remove_shop":
		return d.cmdRemoveShop(ctx, cmd)
	case "reset_shop":
		return d.cmdResetShop(ctx)
	}
	return "", domain.ErrUnknownCommand
}

// ─── Open Commands ──────────────────────────────────────────────────────────

func (d *Dispatcher) cmdBalance(ctx context.Context, cmd Command) (string, error) {
	target := cmd.AuthorID
	if len(cmd.Args) > 0 {
		id, err := parseUserID(cmd.Args[0])
		if err != nil {
			return "", err
		}
		target = id
	}
	acct, err := d.ledger.GetOrCreateAccount(ctx, target)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("User %d has %d points", target, acct.Balance), nil
}

func (d *Dispatcher) cmdShop(ctx context.Context) (string, error) {
	items, err := d.shop.ListItems(ctx)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "Shop is empty", nil
	}
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%s - %d: %s\n", it.Name, it.Price, it.Description)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (d *Dispatcher) cmdBuy(ctx context.Context, cmd Command) (string, error) {
	if len(cmd.Args) == 0 {
		return "", errors.New("usage: buy <item>")
	}
	// Item names may contain spaces.
	name := strings.Join(cmd.Args, " ")
	r, err := d.workflow.Purchase(ctx, cmd.AuthorID, name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Redemption request #%d sent to admins", r.ID), nil
}

func (d *Dispatcher) cmdVCStats(ctx context.Context, cmd Command) (string, error) {
	acct, err := d.ledger.GetOrCreateAccount(ctx, cmd.AuthorID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("VC time: %d minutes", acct.VCMinutes), nil
}

func (d *Dispatcher) cmdInvites(ctx context.Context, cmd Command) (string, error) {
	target := cmd.AuthorID
	if len(cmd.Args) > 0 {
		id, err := parseUserID(cmd.Args[0])
		if err != nil {
			return "", err
		}
		target = id
	}
	n, err := d.invites.CountFor(ctx, target)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("User %d has %d invites", target, n), nil
}

func (d *Dispatcher) cmdHelp(cmd Command) string {
	if d.perms.IsAdmin(cmd.AuthorID) {
		return strings.Join([]string{
			"add_points <user> <amt> — add points",
			"remove_points <user> <amt> — remove points",
			"reset_points <user> — reset points",
			"accept <id> / deny <id> — process a redemption",
			"enable_channel / disable_channel <name> — message points scope",
			"enable_vc / disable_vc <name> — VC points scope",
			"add_shop <name> <price> <description> — add shop item",
			"remove_shop <name> — remove shop item",
			"reset_shop — clear the shop",
		}, "\n")
	}
	return strings.Join([]string{
		"balance [user] — check a balance",
		"shop — view the shop",
		"buy <item> — buy an item",
		"vc_stats — your VC time",
		"invites [user] — invite count",
	}, "\n")
}

// ─── Admin Commands ─────────────────────────────────────────────────────────

func (d *Dispatcher) cmdAccept(ctx context.Context, cmd Command) (string, error) {
	id, err := parseID(cmd.Args)
	if err != nil {
		return "", err
	}
	r, err := d.workflow.Approve(ctx, id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Redemption #%d approved", r.ID), nil
}

func (d *Dispatcher) cmdDeny(ctx context.Context, cmd Command) (string, error) {
	id, err := parseID(cmd.Args)
	if err != nil {
		return "", err
	}
	r, err := d.workflow.Deny(ctx, id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Redemption #%d denied, %d points refunded", r.ID, r.Price), nil
}

func (d *Dispatcher) cmdAdjustPoints(ctx context.Context, cmd Command, kind domain.TransactionKind) (string, error) {
	if len(cmd.Args) < 2 {
		return "", errors.New("usage: <user> <amount>")
	}
	target, err := parseUserID(cmd.Args[0])
	if err != nil {
		return "", err
	}
	amount, err := strconv.ParseInt(cmd.Args[1], 10, 64)
	if err != nil || amount < 0 {
		return "", fmt.Errorf("invalid amount %q", cmd.Args[1])
	}

	delta := amount
	floor := false
	verb := "added to"
	if kind == domain.TxAdminRemove {
		delta = -amount
		floor = true
		verb = "removed from"
	}
	newBalance, err := d.ledger.AdjustBalance(ctx, target, delta, floor, kind)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d points %s user %d (balance: %d)", amount, verb, target, newBalance), nil
}

func (d *Dispatcher) cmdResetPoints(ctx context.Context, cmd Command) (string, error) {
	if len(cmd.Args) == 0 {
		return "", errors.New("usage: reset_points <user>")
	}
	target, err := parseUserID(cmd.Args[0])
	if err != nil {
		return "", err
	}
	if err := d.ledger.ResetBalance(ctx, target); err != nil {
		return "", err
	}
	return fmt.Sprintf("Points reset for user %d", target), nil
}

func (d *Dispatcher) cmdScope(cmd Command, scope *accrual.ChannelScope, enable bool, what string) (string, error) {
	if len(cmd.Args) == 0 {
		return "", errors.New("usage: <channel>")
	}
	id := cmd.Args[0]
	if enable {
		scope.Enable(id)
		return fmt.Sprintf("%s enabled in %s", what, id), nil
	}
	scope.Disable(id)
	return fmt.Sprintf("%s disabled in %s", what, id), nil
}

func (d *Dispatcher) cmdAddShop(ctx context.Context, cmd Command) (string, error) {
	if len(cmd.Args) < 2 {
		return "", errors.New("usage: add_shop <name> <price> [description]")
	}
	price, err := strconv.ParseInt(cmd.Args[1], 10, 64)
	if err != nil || price < 0 {
		return "", fmt.Errorf("invalid price %q", cmd.Args[1])
	}
	description := "No description provided"
	if len(cmd.Args) > 2 {
		description = strings.Join(cmd.Args[2:], " ")
	}
	item, err := d.shop.AddItem(ctx, cmd.Args[0], price, description)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Added %q for %d points", item.Name, item.Price), nil
}

func (d *Dispatcher) cmdRemoveShop(ctx context.Context, cmd Command) (string, error) {
	if len(cmd.Args) == 0 {
		return "", errors.New("usage: remove_shop <name>")
	}
	name := strings.Join(cmd.Args, " ")
	found, err := d.shop.RemoveItem(ctx, name)
	if err != nil {
		return "", err
	}
	if !found {
		return "", domain.ErrItemNotFound
	}
	return fmt.Sprintf("Removed %q from the shop", name), nil
}

func (d *Dispatcher) cmdResetShop(ctx context.Context) (string, error) {
	if err := d.shop.ResetItems(ctx); err != nil {
		return "", err
	}
	return "Shop cleared", nil
}

// ─── Argument Parsing ───────────────────────────────────────────────────────

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New("usage: <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

// parseUserID accepts a raw snowflake or a mention like <@123> / <@!123>.
func parseUserID(arg string) (int64, error) {
	s := strings.TrimSuffix(strings.TrimPrefix(arg, "<@"), ">")
	s = strings.TrimPrefix(s, "!")
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user %q", arg)
	}
	return id, nil
}
