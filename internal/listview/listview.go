package listview

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pusdatin-klh/sinta-admin-web/pkg/pagination"
)

// stateTTL bounds how long a remembered filter state lives. It only needs to
// outlive one browsing session on a single list page.
const stateTTL = 12 * time.Hour

// Query is the parsed state of one list page request.
type Query struct {
	Page    int
	PerPage int
	Search  string
	Tab     string
	SubTab  string
}

// ParseQuery reads the list parameters from raw form values.
func ParseQuery(get func(string) string, perPage int) Query {
	page, _ := strconv.Atoi(get("page"))
	q := Query{
		Page:    page,
		PerPage: perPage,
		Search:  get("search"),
		Tab:     get("tab"),
		SubTab:  get("subtab"),
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// Params converts the query into upstream pagination parameters.
func (q Query) Params() pagination.Params {
	return pagination.Params{Page: q.Page, PerPage: q.PerPage, Search: q.Search}
}

type filterState struct {
	Search string `json:"search"`
	Tab    string `json:"tab"`
	SubTab string `json:"subtab"`
}

type stateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	ListStateKey(sessionID, resource string) string
}

// StateKeeper remembers the last filter state per session and list, so a page
// number can never survive a tab or search change. A stale paginated link
// after a filter edit silently lands on page one.
type StateKeeper struct {
	store stateStore
}

func NewStateKeeper(store stateStore) StateKeeper {
	return StateKeeper{store: store}
}

// Reconcile resets the page to 1 when the tab or search differs from the
// remembered state, then stores the current state. Redis trouble degrades to
// trusting the incoming query.
func (k StateKeeper) Reconcile(ctx context.Context, sessionID, resource string, q Query) Query {
	if k.store == nil || sessionID == "" {
		return q
	}
	key := k.store.ListStateKey(sessionID, resource)

	if raw, err := k.store.Get(ctx, key); err == nil {
		var prev filterState
		if err := json.Unmarshal([]byte(raw), &prev); err == nil {
			if prev.Search != q.Search || prev.Tab != q.Tab || prev.SubTab != q.SubTab {
				q.Page = 1
			}
		}
	}

	if encoded, err := json.Marshal(filterState{Search: q.Search, Tab: q.Tab, SubTab: q.SubTab}); err == nil {
		_ = k.store.Set(ctx, key, string(encoded), stateTTL)
	}
	return q
}
