package storefront

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_catalog/internal/catalog"
	"github.com/GTDGit/gtd_catalog/internal/models"
)

// ApplyFunc receives a refreshed product for the request identified by token.
type ApplyFunc func(token uint64, product *models.Product)

// FailFunc receives the error of the request identified by token.
type FailFunc func(token uint64, err error)

// Sync pushes selection changes to the server as soft navigations. Every push
// gets a new token; only the latest token is current, so late responses to
// older pushes can be recognised and dropped.
type Sync struct {
	nav     Navigator
	timeout time.Duration
	seq     atomic.Uint64
	wg      sync.WaitGroup
}

// NewSync constructs a Sync. A zero timeout means no per-request deadline.
func NewSync(nav Navigator, timeout time.Duration) *Sync {
	return &Sync{nav: nav, timeout: timeout}
}

// Current returns the token of the most recent push.
func (s *Sync) Current() uint64 {
	return s.seq.Load()
}

// IsCurrent reports whether token belongs to the most recent push.
func (s *Sync) IsCurrent(token uint64) bool {
	return token == s.seq.Load()
}

// Push starts a soft navigation to pageURL carrying ids and returns its token
// without waiting. apply runs only if the response is still current; fail
// runs for transport errors. Either callback may be nil.
func (s *Sync) Push(ctx context.Context, pageURL string, ids catalog.OptionIDs, apply ApplyFunc, fail FailFunc) uint64 {
	token := s.seq.Add(1)
	opts := VisitOptions{PreserveScroll: true, PreserveState: true}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		reqCtx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		product, err := s.nav.Visit(reqCtx, pageURL, ids, opts)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrNavigation, err)
			log.Warn().Err(err).Uint64("token", token).Str("url", pageURL).Msg("Soft navigation failed, keeping current view")
			if fail != nil {
				fail(token, err)
			}
			return
		}
		if !s.IsCurrent(token) {
			log.Debug().Uint64("token", token).Uint64("current", s.Current()).Msg("Discarding stale soft navigation response")
			return
		}
		if apply != nil && product != nil {
			apply(token, product)
		}
	}()
	return token
}

// Wait blocks until every in-flight push has finished.
func (s *Sync) Wait() {
	s.wg.Wait()
}
