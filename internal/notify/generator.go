// Package notify produces in-app notifications: a simulated feed on a timer
// and alerts derived from store events.
package notify

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/tair/pharmadistrib/internal/domain"
	"github.com/tair/pharmadistrib/internal/store"
	"github.com/tair/pharmadistrib/pkg/logger"
)

// Executor runs store commands. *store.Store satisfies it.
type Executor interface {
	Execute(ctx context.Context, cmd store.Command) error
}

// Random is the source of the generator's draws. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
	IntN(n int) int
}

// Template is a canned notification
type Template struct {
	Title   string
	Message string
	Type    domain.NotificationType
}

// Templates is the simulated feed
var Templates = []Template{
	{Title: "Nouvelle commande", Message: "Commande #CMD-2024-156 reçue de Pharmacie du Centre", Type: domain.NotificationInfo},
	{Title: "Stock faible", Message: "Paracétamol 500mg - Stock critique (5 unités restantes)", Type: domain.NotificationWarning},
	{Title: "Livraison confirmée", Message: "Commande #CMD-2024-145 livrée avec succès", Type: domain.NotificationSuccess},
}

// GeneratorConfig tunes the simulated feed
type GeneratorConfig struct {
	Interval    time.Duration
	Probability float64
	RecipientID string
}

// Generator emits a random canned notification on some ticks
type Generator struct {
	exec   Executor
	cfg    GeneratorConfig
	random Random
}

// NewGenerator creates a generator. A nil random uses a time-seeded source.
func NewGenerator(exec Executor, cfg GeneratorConfig, random Random) *Generator {
	if random == nil {
		seed := uint64(time.Now().UnixNano())
		random = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Generator{exec: exec, cfg: cfg, random: random}
}

// Run ticks until ctx is cancelled
func (g *Generator) Run(ctx context.Context) error {
	ticker := time.NewTicker(g.cfg.Interval)
	defer ticker.Stop()

	logger.Info(ctx).
		Dur("interval", g.cfg.Interval).
		Float64("probability", g.cfg.Probability).
		Str("recipient", g.cfg.RecipientID).
		Msg("Notification generator started")

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx).Msg("Notification generator stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := g.Tick(ctx); err != nil {
				logger.Warn(ctx).Err(err).Msg("Failed to store generated notification")
			}
		}
	}
}

// Tick draws once. It reports whether a notification was emitted.
func (g *Generator) Tick(ctx context.Context) (bool, error) {
	tpl := Templates[g.random.IntN(len(Templates))]
	if g.random.Float64() >= g.cfg.Probability {
		return false, nil
	}

	err := g.exec.Execute(ctx, store.AddNotification(domain.Notification{
		UserID:  g.cfg.RecipientID,
		Title:   tpl.Title,
		Message: tpl.Message,
		Type:    tpl.Type,
	}))
	if err != nil {
		return false, err
	}
	return true, nil
}
