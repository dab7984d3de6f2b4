package storefront

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_catalog/internal/catalog"
	"github.com/GTDGit/gtd_catalog/internal/models"
)

func TestSync_PushUsesSoftNavigationFlags(t *testing.T) {
	nav := newGatedNavigator()
	s := NewSync(nav, 0)

	var applied *models.Product
	token := s.Push(context.Background(), "/products/shirt", catalog.OptionIDs{1: 12}, func(_ uint64, p *models.Product) {
		applied = p
	}, nil)

	v := <-nav.visits
	assert.Equal(t, "/products/shirt", v.url)
	assert.Equal(t, catalog.OptionIDs{1: 12}, v.options)
	assert.Equal(t, VisitOptions{PreserveScroll: true, PreserveState: true}, v.opts)

	v.reply <- visitReply{product: shirt()}
	s.Wait()

	assert.Equal(t, uint64(1), token)
	require.NotNil(t, applied)
}

func TestSync_DropsStaleResponses(t *testing.T) {
	nav := newGatedNavigator()
	s := NewSync(nav, 0)

	var applied []uint64
	apply := func(token uint64, _ *models.Product) { applied = append(applied, token) }

	first := s.Push(context.Background(), "/p", catalog.OptionIDs{1: 11}, apply, nil)
	v1 := <-nav.visits
	second := s.Push(context.Background(), "/p", catalog.OptionIDs{1: 12}, apply, nil)
	v2 := <-nav.visits

	// The older request answers last; it must not win.
	v2.reply <- visitReply{product: shirt()}
	v1.reply <- visitReply{product: shirt()}
	s.Wait()

	assert.NotEqual(t, first, second)
	assert.Equal(t, []uint64{second}, applied)
}

func TestSync_FailureCallsFail(t *testing.T) {
	nav := newGatedNavigator()
	s := NewSync(nav, 0)

	var got error
	s.Push(context.Background(), "/p", catalog.OptionIDs{}, nil, func(_ uint64, err error) { got = err })
	(<-nav.visits).reply <- visitReply{err: errOffline}
	s.Wait()

	assert.ErrorIs(t, got, ErrNavigation)
	assert.ErrorIs(t, got, errOffline)
}
