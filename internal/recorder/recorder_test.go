package recorder

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleseneker/matomo-contract/internal/journal"
	"github.com/kyleseneker/matomo-contract/internal/logging"
	"github.com/kyleseneker/matomo-contract/internal/tracker"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newTestRecorder(t *testing.T, opts ...Option) (*Recorder, *journal.MemoryJournal) {
	t.Helper()
	j := journal.NewMemoryJournal()
	base := []Option{
		WithLogger(logging.Discard()),
		WithClock(func() time.Time { return fixedNow }),
	}
	return New(j, append(base, opts...)...), j
}

func onlyCall(t *testing.T, r *Recorder, method string) journal.Call {
	t.Helper()
	calls, err := r.CallsFor(method)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	return calls[0]
}

func TestTrackEventRecordsArguments(t *testing.T) {
	r, _ := newTestRecorder(t)

	r.TrackEvent("Videos", "Play", tracker.Some("Intro"), tracker.Some(42.0))

	call := onlyCall(t, r, "TrackEvent")
	assert.Equal(t, []any{"Videos", "Play", "Intro", 42.0}, call.Args)
	assert.Equal(t, fixedNow, call.Timestamp)
}

func TestOmittedOptionalsRecordedAsNil(t *testing.T) {
	r, _ := newTestRecorder(t)

	r.TrackEvent("Videos", "Pause", tracker.None[string](), tracker.None[float64]())
	r.TrackPageView(tracker.Opt[string]{})
	r.TrackSiteSearch("go", tracker.None[string](), tracker.Some(0))

	assert.Equal(t, []any{"Videos", "Pause", nil, nil}, onlyCall(t, r, "TrackEvent").Args)
	assert.Equal(t, []any{nil}, onlyCall(t, r, "TrackPageView").Args)
	assert.Equal(t, []any{"go", nil, 0}, onlyCall(t, r, "TrackSiteSearch").Args)
}

func TestGetVisitorID(t *testing.T) {
	t.Run("Fixed", func(t *testing.T) {
		r, _ := newTestRecorder(t, WithVisitorID("a1b2c3d4e5f6a1b2"))
		id := r.GetVisitorID()
		assert.Equal(t, tracker.VisitorID("a1b2c3d4e5f6a1b2"), id)
		assert.Len(t, string(id), 16)
	})

	t.Run("Random", func(t *testing.T) {
		r, _ := newTestRecorder(t)
		id := r.GetVisitorID()
		assert.True(t, id.Valid())
		assert.Equal(t, id, r.GetVisitorID(), "visitor id must be stable for a recorder")
	})
}

func TestSetCustomVariableScope(t *testing.T) {
	t.Run("Omitted Scope Defaults To Visit", func(t *testing.T) {
		r, _ := newTestRecorder(t)
		r.SetCustomVariable(1, "Type", "Customer", tracker.None[tracker.Scope]())

		call := onlyCall(t, r, "SetCustomVariable")
		assert.Equal(t, []any{1, "Type", "Customer", tracker.ScopeVisit}, call.Args)
	})

	t.Run("Configured Default", func(t *testing.T) {
		r, _ := newTestRecorder(t, WithDefaultScope(tracker.ScopePage))
		r.SetCustomVariable(1, "Type", "Customer", tracker.None[tracker.Scope]())
		r.DeleteCustomVariable(1, tracker.None[tracker.Scope]())

		assert.Equal(t, tracker.ScopePage, onlyCall(t, r, "SetCustomVariable").Args[3])
		assert.Equal(t, []any{1, tracker.ScopePage}, onlyCall(t, r, "DeleteCustomVariable").Args)
	})

	t.Run("Explicit Scope Kept", func(t *testing.T) {
		r, _ := newTestRecorder(t)
		r.SetCustomVariable(2, "Plan", "Pro", tracker.Some(tracker.ScopePage))
		assert.Equal(t, tracker.ScopePage, onlyCall(t, r, "SetCustomVariable").Args[3])
	})
}

func TestEcommerce(t *testing.T) {
	t.Run("Category List Preserved", func(t *testing.T) {
		r, _ := newTestRecorder(t)
		r.AddEcommerceItem("SKU-1", "Dune", tracker.CategoryList("Books", "Fiction"), 9.99, tracker.None[int]())

		call := onlyCall(t, r, "AddEcommerceItem")
		assert.Equal(t, []any{"SKU-1", "Dune", []string{"Books", "Fiction"}, 9.99, nil}, call.Args)

		items := r.GetEcommerceItems()
		require.Contains(t, items, "SKU-1")
		item := items["SKU-1"].(tracker.CartItem)
		assert.True(t, item.Category.IsList())
		assert.Equal(t, []string{"Books", "Fiction"}, item.Category.Names())
		assert.Equal(t, 1, item.Quantity)
	})

	t.Run("Single Category", func(t *testing.T) {
		r, _ := newTestRecorder(t)
		r.AddEcommerceItem("SKU-2", "Mug", tracker.SingleCategory("Kitchen"), 5, tracker.Some(3))
		assert.Equal(t, []any{"SKU-2", "Mug", "Kitchen", 5.0, 3}, onlyCall(t, r, "AddEcommerceItem").Args)
	})

	t.Run("Cart Lifecycle", func(t *testing.T) {
		r, _ := newTestRecorder(t)
		r.AddEcommerceItem("A", "a", tracker.SingleCategory("x"), 1, tracker.Some(2))
		r.AddEcommerceItem("B", "b", tracker.SingleCategory("x"), 2, tracker.None[int]())
		r.AddEcommerceItem("A", "a2", tracker.SingleCategory("x"), 1.5, tracker.Some(4))
		assert.Len(t, r.GetEcommerceItems(), 2)
		assert.Equal(t, 4, r.GetEcommerceItems()["A"].(tracker.CartItem).Quantity)

		r.RemoveEcommerceItem("B")
		assert.Len(t, r.GetEcommerceItems(), 1)

		snapshot := r.GetEcommerceItems()
		r.ClearEcommerceCart()
		assert.Empty(t, r.GetEcommerceItems())
		assert.Len(t, snapshot, 1, "snapshots are not affected by later changes")
	})

	t.Run("Order Empties Cart", func(t *testing.T) {
		r, _ := newTestRecorder(t)
		r.AddEcommerceItem("A", "a", tracker.SingleCategory("x"), 10, tracker.None[int]())
		r.TrackEcommerceCartUpdate(10)
		r.TrackEcommerceOrder("ORD-1", 12.5, tracker.Some(10.0), tracker.None[float64](), tracker.Some(2.5), tracker.None[float64]())

		assert.Empty(t, r.GetEcommerceItems())
		assert.Equal(t, []any{10.0}, onlyCall(t, r, "TrackEcommerceCartUpdate").Args)
		assert.Equal(t, []any{"ORD-1", 12.5, 10.0, nil, 2.5, nil}, onlyCall(t, r, "TrackEcommerceOrder").Args)
		assert.Equal(t, fixedNow.Unix(), r.GetVisitorInfo()[6])
	})
}

func TestConsent(t *testing.T) {
	r, _ := newTestRecorder(t)
	assert.False(t, r.HasRememberedConsent())

	r.RequireConsent()
	r.SetConsentGiven()
	r.SetCookieConsentGiven()
	assert.True(t, r.HasRememberedConsent())
	required, given, cookies, optedOut := r.ConsentState()
	assert.True(t, required)
	assert.True(t, given)
	assert.True(t, cookies)
	assert.False(t, optedOut)

	r.OptUserOut()
	_, _, _, optedOut = r.ConsentState()
	assert.True(t, optedOut)
	r.ForgetUserOptOut()
	_, _, _, optedOut = r.ConsentState()
	assert.False(t, optedOut)

	r.ForgetConsentGiven()
	assert.False(t, r.HasRememberedConsent())
	_, _, cookies, _ = r.ConsentState()
	assert.False(t, cookies)
}

func TestUserID(t *testing.T) {
	r, _ := newTestRecorder(t)
	r.SetUserID("user@example.com")
	assert.Equal(t, "user@example.com", r.UserID())
	r.ResetUserID()
	assert.Empty(t, r.UserID())

	assert.Equal(t, []any{"user@example.com"}, onlyCall(t, r, "SetUserID").Args)
	assert.Equal(t, []any{}, onlyCall(t, r, "ResetUserID").Args)
}

func TestAccessors(t *testing.T) {
	r, _ := newTestRecorder(t, WithVisitorID("0123456789abcdef"), WithCrossDomainParameter("xd"))

	info := r.GetVisitorInfo()
	require.Len(t, info, 7)
	assert.Equal(t, "0123456789abcdef", info[1])
	assert.Equal(t, fixedNow.Unix(), info[2])
	assert.Equal(t, int64(0), info[6])

	assert.Equal(t, "xd=0123456789abcdef."+"1792238400", r.GetCrossDomainLinkingURLParameter())
}

func TestSetDomainsCopiesInput(t *testing.T) {
	r, _ := newTestRecorder(t)
	domains := []string{"example.com", "*.example.org"}
	r.SetDomains(domains)
	domains[0] = "changed"

	assert.Equal(t, []any{[]string{"example.com", "*.example.org"}}, onlyCall(t, r, "SetDomains").Args)
}

func TestCallOrder(t *testing.T) {
	r, _ := newTestRecorder(t)
	r.RequireConsent()
	r.TrackPageView(tracker.Some("Home"))
	r.TrackLink("https://example.com/file.pdf", tracker.LinkTypeDownload)
	r.EnableLinkTracking(tracker.Some(true))

	calls, err := r.Calls()
	require.NoError(t, err)
	var methods []string
	for _, c := range calls {
		methods = append(methods, c.Method)
	}
	assert.Equal(t, []string{"RequireConsent", "TrackPageView", "TrackLink", "EnableLinkTracking"}, methods)
	assert.Equal(t, []any{"https://example.com/file.pdf", tracker.LinkTypeDownload}, calls[2].Args)
}

type failingJournal struct {
	journal.MemoryJournal
}

func (f *failingJournal) Append(journal.Call) error {
	return errors.New("disk full")
}

func TestJournalFailureIsSwallowed(t *testing.T) {
	r := New(&failingJournal{}, WithLogger(logging.Discard()))

	assert.NotPanics(t, func() {
		r.TrackGoal(3, tracker.Some(9.5))
		r.AddEcommerceItem("A", "a", tracker.SingleCategory("x"), 1, tracker.None[int]())
	})
	// State still follows the calls even though nothing was journaled.
	assert.Len(t, r.GetEcommerceItems(), 1)
	assert.ErrorContains(t, r.Err(), "disk full")
}

func TestErrNilWhenJournaled(t *testing.T) {
	r, _ := newTestRecorder(t)
	r.TrackGoal(1, tracker.None[float64]())
	assert.NoError(t, r.Err())
}

func TestAccessorResultsJournaled(t *testing.T) {
	r, _ := newTestRecorder(t, WithVisitorID("0123456789abcdef"))
	r.GetVisitorID()
	r.HasRememberedConsent()

	assert.Equal(t, tracker.VisitorID("0123456789abcdef"), onlyCall(t, r, "GetVisitorID").Result)
	assert.Equal(t, false, onlyCall(t, r, "HasRememberedConsent").Result)

	items := r.GetEcommerceItems()
	items["x"] = "mutated"
	assert.Empty(t, onlyCall(t, r, "GetEcommerceItems").Result)
}

func TestRestore(t *testing.T) {
	dir := t.TempDir()
	clock := fixedNow
	tick := func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	j, err := journal.NewFileJournal(dir)
	require.NoError(t, err)
	first := New(j, WithLogger(logging.Discard()), WithClock(tick))
	id := first.GetVisitorID()
	first.RequireConsent()
	first.SetConsentGiven()
	first.SetCookieConsentGiven()
	first.ForgetCookieConsentGiven()
	first.OptUserOut()
	first.SetUserID("user@example.com")
	first.AddEcommerceItem("A", "a", tracker.CategoryList("Books", "Fiction"), 9.99, tracker.Some(2))
	first.AddEcommerceItem("B", "b", tracker.SingleCategory("Kitchen"), 5, tracker.None[int]())
	first.AddEcommerceItem("C", "c", tracker.SingleCategory("Garden"), 7, tracker.None[int]())
	first.RemoveEcommerceItem("C")
	require.NoError(t, first.Err())

	reopened, err := journal.NewFileJournal(dir)
	require.NoError(t, err)
	second := New(reopened, WithLogger(logging.Discard()), WithClock(tick))
	require.NoError(t, second.Restore())

	assert.Equal(t, id, second.GetVisitorID())
	assert.Equal(t, "user@example.com", second.UserID())
	required, given, cookies, optedOut := second.ConsentState()
	assert.True(t, required)
	assert.True(t, given)
	assert.False(t, cookies)
	assert.True(t, optedOut)

	items := second.GetEcommerceItems()
	require.Len(t, items, 2)
	a := items["A"].(tracker.CartItem)
	assert.Equal(t, []string{"Books", "Fiction"}, a.Category.Names())
	assert.True(t, a.Category.IsList())
	assert.Equal(t, 9.99, a.Price)
	assert.Equal(t, 2, a.Quantity)
	b := items["B"].(tracker.CartItem)
	assert.False(t, b.Category.IsList())
	assert.Equal(t, 1, b.Quantity)

	journaled, err := reopened.Calls()
	require.NoError(t, err)
	info := second.GetVisitorInfo()
	assert.Equal(t, journaled[0].Timestamp.Unix(), info[2], "created at the first journaled call")
	assert.Equal(t, int64(0), info[6])

	second.TrackEcommerceOrder("ORD-1", 14.99, tracker.None[float64](), tracker.None[float64](), tracker.None[float64](), tracker.None[float64]())
	orderedAt := clock

	third := New(reopened, WithLogger(logging.Discard()), WithClock(tick))
	require.NoError(t, third.Restore())
	assert.Empty(t, third.GetEcommerceItems())
	assert.Equal(t, orderedAt.Unix(), third.GetVisitorInfo()[6])
}

func TestRestoreKeepsConfiguredVisitorID(t *testing.T) {
	j := journal.NewMemoryJournal()
	New(j, WithLogger(logging.Discard())).GetVisitorID()

	r := New(j, WithLogger(logging.Discard()), WithVisitorID("fedcba9876543210"))
	require.NoError(t, r.Restore())
	assert.Equal(t, tracker.VisitorID("fedcba9876543210"), r.GetVisitorID())
}

func TestRestoreSkipsMalformedCalls(t *testing.T) {
	j := journal.NewMemoryJournal()
	require.NoError(t, j.Append(journal.NewCall(fixedNow, "AddEcommerceItem", "A")))
	require.NoError(t, j.Append(journal.NewCall(fixedNow, "SetUserID")))
	bad := journal.NewCall(fixedNow, "GetVisitorID")
	bad.Result = "not-hex"
	require.NoError(t, j.Append(bad))
	require.NoError(t, j.Append(journal.NewCall(fixedNow, "SetConsentGiven")))

	r := New(j, WithLogger(logging.Discard()), WithVisitorID(""))
	require.NoError(t, r.Restore())
	assert.Empty(t, r.GetEcommerceItems())
	assert.Empty(t, r.UserID())
	assert.True(t, r.GetVisitorID().Valid())
	assert.True(t, r.HasRememberedConsent())
}

func TestSharedCellRoundTrip(t *testing.T) {
	t.Cleanup(tracker.Shared().Reset)
	r, _ := newTestRecorder(t)

	tracker.SetCurrent(r)
	current, err := tracker.Current()
	require.NoError(t, err)
	assert.Same(t, r, current)

	current.TrackEvent("Videos", "Play", tracker.Some("Intro"), tracker.Some(42.0))
	assert.Equal(t, []any{"Videos", "Play", "Intro", 42.0}, onlyCall(t, r, "TrackEvent").Args)
}
