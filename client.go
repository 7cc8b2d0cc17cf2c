package pubcache

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	c "github.com/unkn0wn-root/pubcache/codec"
	"github.com/unkn0wn-root/pubcache/internal/keys"
)

type client[V any] struct {
	url    string // endpoint + site path segment
	accept string
	key    string
	http   Doer
	codec  c.Codec[V]
	store  *tieredStore[V]
	log    Logger
	hooks  Hooks

	maxAge   time.Duration
	staleFor time.Duration
	now      func() time.Time

	// at most one outstanding refresh per client instance; concurrent
	// callers join the in-flight call and observe its result. The group
	// drops the call record on completion, success or failure alike.
	flight singleflight.Group
}

func newClient[V any](opts Options[V]) (*client[V], error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("pubcache: endpoint is required")
	}
	if opts.SiteID == "" {
		return nil, fmt.Errorf("pubcache: site id is required")
	}

	cl := &client[V]{
		url: documentURL(opts.Endpoint, opts.SiteID),
	}

	// defaults
	cl.codec = coalesce[c.Codec[V]](opts.Codec, c.JSON[V]{})
	cl.http = coalesce[Doer](opts.HTTP, http.DefaultClient)
	cl.log = coalesce[Logger](opts.Logger, NopLogger{})
	cl.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	cl.maxAge = coalesce[time.Duration](opts.MaxAge, time.Minute)
	cl.staleFor = coalesce[time.Duration](opts.StaleFor, 5*time.Minute)
	if opts.Now != nil {
		cl.now = opts.Now
	} else {
		cl.now = time.Now
	}

	cl.accept = "application/json"
	if ct, ok := cl.codec.(c.ContentTyper); ok {
		cl.accept = ct.ContentType()
	}

	prefix := coalesce[string](opts.KeyPrefix, "pubcache")
	cl.key = keys.Cache(prefix, opts.Endpoint, opts.SiteID, opts.Version)
	cl.store = &tieredStore[V]{
		key:     cl.key,
		backend: opts.Storage,
		codec:   cl.codec,
		log:     cl.log,
		hooks:   cl.hooks,
	}
	return cl, nil
}

func documentURL(endpoint, site string) string {
	return strings.TrimRight(endpoint, "/") + "/" + url.PathEscape(site)
}

func (cl *client[V]) GetPublished(ctx context.Context, opts ReadOptions) (Result[V], error) {
	if !opts.ForceRefresh {
		if e, src, ok := cl.store.load(ctx); ok {
			now := cl.now()
			if e.fresh(now) {
				return Result[V]{Data: e.value, Source: src, Token: e.token}, nil
			}
			if e.usable(now) {
				// serve stale and revalidate behind the read
				cl.revalidateInBackground(ctx)
				return Result[V]{Data: e.value, Source: src, Token: e.token}, nil
			}
			// expired: fall through to a blocking refresh
		}
	}
	return cl.coordinatedRefresh(ctx)
}

func (cl *client[V]) Refresh(ctx context.Context) (Result[V], error) {
	return cl.coordinatedRefresh(ctx)
}

func (cl *client[V]) ClearCache(ctx context.Context) {
	cl.store.clear(ctx)
}

func (cl *client[V]) Close(ctx context.Context) error {
	if cl.store.backend != nil {
		return cl.store.backend.Close(ctx)
	}
	return nil
}

// coordinatedRefresh performs a refresh, or joins one already in flight.
// The initiating caller's context drives the network fetch; a joiner that
// cancels only stops waiting, it cannot abort the shared fetch.
func (cl *client[V]) coordinatedRefresh(ctx context.Context) (Result[V], error) {
	var zero Result[V]
	ch := cl.flight.DoChan(cl.key, func() (any, error) {
		return cl.refresh(ctx)
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(Result[V]), nil
	}
}

// revalidateInBackground starts (or joins) a refresh without making the
// caller wait. The flight is detached from the caller's cancellation, and
// its failure is always observed: logged and reported through Hooks.
func (cl *client[V]) revalidateInBackground(ctx context.Context) {
	bctx := context.WithoutCancel(ctx)
	ch := cl.flight.DoChan(cl.key, func() (any, error) {
		return cl.refresh(bctx)
	})
	go func() {
		res := <-ch
		if res.Err != nil {
			cl.log.Warn("background revalidation failed", Fields{"key": cl.key, "err": res.Err.Error()})
			cl.hooks.BackgroundRefreshFailed(cl.key, res.Err)
		}
	}()
}

// refresh performs one conditional fetch and persists the outcome in both
// tiers. Failures propagate unchanged; there is no fallback to stale data
// at this layer.
func (cl *client[V]) refresh(ctx context.Context) (Result[V], error) {
	var zero Result[V]

	prior, _, hasPrior := cl.store.load(ctx)
	var priorToken string
	if hasPrior {
		priorToken = prior.token
	}

	fr, err := cl.fetchRemote(ctx, priorToken)
	if err != nil {
		return zero, err
	}

	now := cl.now()
	if fr.notModified {
		if !hasPrior {
			// a 304 validates a payload we no longer hold
			return zero, ErrNoCachedPayload
		}
		e := &entry[V]{
			value:     prior.value,
			payload:   prior.payload,
			fetchedAt: now,
			maxAge:    cl.maxAge,
			staleFor:  cl.staleFor,
			token:     fr.token,
		}
		cl.store.save(ctx, e)
		cl.hooks.Revalidated(cl.key)
		return Result[V]{Data: e.value, Source: SourceRevalidated, Token: e.token}, nil
	}

	v, err := cl.codec.Decode(fr.payload)
	if err != nil {
		return zero, &DecodeError{Err: err}
	}
	e := &entry[V]{
		value:     v,
		payload:   fr.payload,
		fetchedAt: now,
		maxAge:    cl.maxAge,
		staleFor:  cl.staleFor,
		token:     fr.token,
	}
	cl.store.save(ctx, e)
	return Result[V]{Data: v, Source: SourceNetwork, Token: fr.token}, nil
}
