// Package recorder implements tracker.Tracker by journaling every call.
//
// It keeps only the state its accessors report: visitor id and info, consent
// flags, user id and the e-commerce cart. Consent is not enforced: calls made
// without consent are still recorded. Restore rebuilds that state from calls
// journaled earlier.
package recorder

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/kyleseneker/matomo-contract/internal/journal"
	"github.com/kyleseneker/matomo-contract/internal/logging"
	"github.com/kyleseneker/matomo-contract/internal/tracker"
)

var _ tracker.Tracker = (*Recorder)(nil)

// Recorder is a tracker that writes each call to a journal.
type Recorder struct {
	mu      sync.Mutex
	journal journal.Journal
	logger  logging.Logger
	now     func() time.Time

	visitorID        tracker.VisitorID
	fixedVisitorID   bool
	defaultScope     tracker.Scope
	crossDomainParam string

	createdAt       time.Time
	lastOrderAt     time.Time
	userID          string
	consentRequired bool
	consentGiven    bool
	cookieConsent   bool
	optedOut        bool
	cart            map[string]tracker.CartItem
	lastErr         error
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithVisitorID fixes the visitor id reported by GetVisitorID. A fixed id
// is never replaced by one restored from the journal.
func WithVisitorID(id tracker.VisitorID) Option {
	return func(r *Recorder) {
		r.visitorID = id
		r.fixedVisitorID = id != ""
	}
}

// WithDefaultScope sets the scope recorded when a custom variable call omits it.
func WithDefaultScope(scope tracker.Scope) Option {
	return func(r *Recorder) { r.defaultScope = scope }
}

// WithCrossDomainParameter sets the query parameter name used for cross-domain linking.
func WithCrossDomainParameter(name string) Option {
	return func(r *Recorder) { r.crossDomainParam = name }
}

func WithLogger(logger logging.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// New returns a recorder writing to j.
func New(j journal.Journal, opts ...Option) *Recorder {
	r := &Recorder{
		journal:          j,
		now:              time.Now,
		defaultScope:     tracker.DefaultScope,
		crossDomainParam: "pk_vid",
		cart:             make(map[string]tracker.CartItem),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.Get()
	}
	r.logger = r.logger.Named("recorder")
	if r.visitorID == "" {
		r.visitorID = tracker.RandomVisitorID()
	}
	r.createdAt = r.now()
	return r
}

// Restore replays the calls already in the journal, so a recorder opened on a
// persistent journal continues where the previous one stopped: the visitor id
// last handed out, consent flags, user id and cart. The visitor creation time
// becomes the time of the first journaled call. Calls that cannot be applied
// are logged and skipped.
func (r *Recorder) Restore() error {
	calls, err := r.journal.Calls()
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(calls) > 0 {
		r.createdAt = calls[0].Timestamp
	}
	for _, call := range calls {
		if err := r.apply(call); err != nil {
			r.logger.Warn("Skipping journaled call", "method", call.Method, "id", call.ID, "error", err)
		}
	}
	r.logger.Debug("Recorder state restored", "calls", len(calls), "visitor_id", r.visitorID)
	return nil
}

// Err returns the most recent journal failure, or nil if every call so far
// was journaled.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (r *Recorder) record(method string, args ...any) {
	r.commit(journal.NewCall(r.now(), method, args...))
}

// recordResult journals an accessor call along with what it returned.
func (r *Recorder) recordResult(method string, result any) {
	call := journal.NewCall(r.now(), method)
	call.Result = result
	r.commit(call)
}

// commit applies call to the recorder state and journals it. Journal failures
// are logged and kept for Err because tracking calls never fail from the
// caller's point of view.
func (r *Recorder) commit(call journal.Call) {
	r.mu.Lock()
	if err := r.apply(call); err != nil {
		r.logger.Warn("Failed to apply tracking call", "method", call.Method, "error", err)
	}
	r.mu.Unlock()

	if err := r.journal.Append(call); err != nil {
		r.mu.Lock()
		r.lastErr = fmt.Errorf("failed to journal %s: %w", call.Method, err)
		r.mu.Unlock()
		r.logger.Warn("Failed to journal tracking call", "method", call.Method, "error", err)
		return
	}
	r.logger.Debug("Tracking call recorded", "method", call.Method, "id", call.ID)
}

// Calls returns everything recorded so far.
func (r *Recorder) Calls() ([]journal.Call, error) {
	return r.journal.Calls()
}

// CallsFor returns the recorded calls of one method, in order.
func (r *Recorder) CallsFor(method string) ([]journal.Call, error) {
	all, err := r.journal.Calls()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	var out []journal.Call
	for _, c := range all {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out, nil
}

// Page and event tracking

func (r *Recorder) TrackPageView(customTitle tracker.Opt[string]) {
	r.record("TrackPageView", customTitle.Value())
}

func (r *Recorder) TrackEvent(category, action string, name tracker.Opt[string], value tracker.Opt[float64]) {
	r.record("TrackEvent", category, action, name.Value(), value.Value())
}

func (r *Recorder) TrackSiteSearch(keyword string, category tracker.Opt[string], resultsCount tracker.Opt[int]) {
	r.record("TrackSiteSearch", keyword, category.Value(), resultsCount.Value())
}

func (r *Recorder) TrackLink(url string, linkType tracker.LinkType) {
	r.record("TrackLink", url, linkType)
}

func (r *Recorder) TrackGoal(goalID int, customRevenue tracker.Opt[float64]) {
	r.record("TrackGoal", goalID, customRevenue.Value())
}

func (r *Recorder) EnableHeartBeatTimer(activeTimeInSeconds tracker.Opt[int]) {
	r.record("EnableHeartBeatTimer", activeTimeInSeconds.Value())
}

func (r *Recorder) EnableLinkTracking(enable tracker.Opt[bool]) {
	r.record("EnableLinkTracking", enable.Value())
}

// Request customisation

func (r *Recorder) SetCustomURL(url string) {
	r.record("SetCustomURL", url)
}

func (r *Recorder) SetDoNotTrack(enable bool) {
	r.record("SetDoNotTrack", enable)
}

func (r *Recorder) SetCustomDimension(dimensionID int, value string) {
	r.record("SetCustomDimension", dimensionID, value)
}

func (r *Recorder) DeleteCustomDimension(dimensionID int) {
	r.record("DeleteCustomDimension", dimensionID)
}

// SetCustomVariable records the default scope when scope is omitted.
func (r *Recorder) SetCustomVariable(index int, name, value string, scope tracker.Opt[tracker.Scope]) {
	r.record("SetCustomVariable", index, name, value, scope.Or(r.defaultScope))
}

// DeleteCustomVariable records the default scope when scope is omitted.
func (r *Recorder) DeleteCustomVariable(index int, scope tracker.Opt[tracker.Scope]) {
	r.record("DeleteCustomVariable", index, scope.Or(r.defaultScope))
}

func (r *Recorder) SetReferrerURL(url string) {
	r.record("SetReferrerURL", url)
}

func (r *Recorder) SetGenerationTimeMs(timeMs int) {
	r.record("SetGenerationTimeMs", timeMs)
}

func (r *Recorder) SetUserID(userID string) {
	r.record("SetUserID", userID)
}

func (r *Recorder) ResetUserID() {
	r.record("ResetUserID")
}

// UserID returns the user id set by SetUserID.
func (r *Recorder) UserID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userID
}

func (r *Recorder) GetVisitorID() tracker.VisitorID {
	r.mu.Lock()
	id := r.visitorID
	r.mu.Unlock()

	r.recordResult("GetVisitorID", id)
	return id
}

// GetVisitorInfo follows the client's layout: new visitor flag, visitor id,
// creation time, visit count, current visit time, last visit time and last
// e-commerce order time. Times are unix seconds, zero when unknown.
func (r *Recorder) GetVisitorInfo() tracker.VisitorInfo {
	r.mu.Lock()
	var lastOrder int64
	if !r.lastOrderAt.IsZero() {
		lastOrder = r.lastOrderAt.Unix()
	}
	info := tracker.VisitorInfo{
		"1",
		string(r.visitorID),
		r.createdAt.Unix(),
		1,
		r.createdAt.Unix(),
		int64(0),
		lastOrder,
	}
	r.mu.Unlock()

	r.recordResult("GetVisitorInfo", slices.Clone(info))
	return info
}

// Consent

func (r *Recorder) RequireConsent() {
	r.record("RequireConsent")
}

func (r *Recorder) SetConsentGiven() {
	r.record("SetConsentGiven")
}

func (r *Recorder) ForgetConsentGiven() {
	r.record("ForgetConsentGiven")
}

func (r *Recorder) SetCookieConsentGiven() {
	r.record("SetCookieConsentGiven")
}

func (r *Recorder) ForgetCookieConsentGiven() {
	r.record("ForgetCookieConsentGiven")
}

func (r *Recorder) RequireCookieConsent() {
	r.record("RequireCookieConsent")
}

func (r *Recorder) HasRememberedConsent() bool {
	r.mu.Lock()
	given := r.consentGiven
	r.mu.Unlock()

	r.recordResult("HasRememberedConsent", given)
	return given
}

func (r *Recorder) OptUserOut() {
	r.record("OptUserOut")
}

func (r *Recorder) ForgetUserOptOut() {
	r.record("ForgetUserOptOut")
}

// ConsentState reports the consent flags without journaling a call.
func (r *Recorder) ConsentState() (required, given, cookies, optedOut bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.consentRequired, r.consentGiven, r.cookieConsent, r.optedOut
}

// Cookies

func (r *Recorder) DisableCookies() {
	r.record("DisableCookies")
}

func (r *Recorder) EnableCookies() {
	r.record("EnableCookies")
}

func (r *Recorder) DeleteCookies() {
	r.record("DeleteCookies")
}

func (r *Recorder) SetCookieDomain(domain string) {
	r.record("SetCookieDomain", domain)
}

func (r *Recorder) SetCookiePath(path string) {
	r.record("SetCookiePath", path)
}

func (r *Recorder) SetSecureCookie(secure bool) {
	r.record("SetSecureCookie", secure)
}

func (r *Recorder) SetVisitorCookieTimeout(seconds int) {
	r.record("SetVisitorCookieTimeout", seconds)
}

func (r *Recorder) SetSessionCookieTimeout(seconds int) {
	r.record("SetSessionCookieTimeout", seconds)
}

func (r *Recorder) SetReferralCookieTimeout(seconds int) {
	r.record("SetReferralCookieTimeout", seconds)
}

func (r *Recorder) SetCookieNamePrefix(prefix string) {
	r.record("SetCookieNamePrefix", prefix)
}

func (r *Recorder) AlwaysUseSendBeacon() {
	r.record("AlwaysUseSendBeacon")
}

// Cross-domain linking

func (r *Recorder) EnableCrossDomainLinking() {
	r.record("EnableCrossDomainLinking")
}

func (r *Recorder) DisableCrossDomainLinking() {
	r.record("DisableCrossDomainLinking")
}

func (r *Recorder) SetDomains(domains []string) {
	cp := make([]string, len(domains))
	copy(cp, domains)
	r.record("SetDomains", cp)
}

// GetCrossDomainLinkingURLParameter returns "<param>=<visitor id>.<unix seconds>".
func (r *Recorder) GetCrossDomainLinkingURLParameter() string {
	r.mu.Lock()
	param := fmt.Sprintf("%s=%s.%d", r.crossDomainParam, r.visitorID, r.now().Unix())
	r.mu.Unlock()

	r.recordResult("GetCrossDomainLinkingURLParameter", param)
	return param
}

// Content tracking

func (r *Recorder) TrackAllContentImpressions() {
	r.record("TrackAllContentImpressions")
}

func (r *Recorder) TrackVisibleContentImpressions(checkOnScroll tracker.Opt[bool], watchInterval tracker.Opt[int]) {
	r.record("TrackVisibleContentImpressions", checkOnScroll.Value(), watchInterval.Value())
}

func (r *Recorder) TrackContentImpression(contentName, contentPiece, contentTarget string) {
	r.record("TrackContentImpression", contentName, contentPiece, contentTarget)
}

func (r *Recorder) TrackContentInteraction(interaction, contentName, contentPiece, contentTarget string) {
	r.record("TrackContentInteraction", interaction, contentName, contentPiece, contentTarget)
}

// E-commerce

// AddEcommerceItem adds or replaces the cart entry for productSKU. An omitted
// quantity counts as 1 in the cart and is recorded as omitted.
func (r *Recorder) AddEcommerceItem(productSKU, productName string, productCategory tracker.Category, productPrice float64, quantity tracker.Opt[int]) {
	r.record("AddEcommerceItem", productSKU, productName, productCategory.Value(), productPrice, quantity.Value())
}

func (r *Recorder) RemoveEcommerceItem(productSKU string) {
	r.record("RemoveEcommerceItem", productSKU)
}

func (r *Recorder) ClearEcommerceCart() {
	r.record("ClearEcommerceCart")
}

// GetEcommerceItems returns a snapshot of the cart keyed by SKU.
func (r *Recorder) GetEcommerceItems() tracker.CartItems {
	items := r.cartSnapshot()
	journaled := make(tracker.CartItems, len(items))
	maps.Copy(journaled, items)

	r.recordResult("GetEcommerceItems", journaled)
	return items
}

func (r *Recorder) cartSnapshot() tracker.CartItems {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make(tracker.CartItems, len(r.cart))
	for sku, item := range r.cart {
		items[sku] = item
	}
	return items
}

func (r *Recorder) TrackEcommerceCartUpdate(cartAmount float64) {
	r.record("TrackEcommerceCartUpdate", cartAmount)
}

// TrackEcommerceOrder records the order and empties the cart, as the client does.
func (r *Recorder) TrackEcommerceOrder(orderID string, orderGrandTotal float64, orderSubTotal, orderTax, orderShipping, orderDiscount tracker.Opt[float64]) {
	r.record("TrackEcommerceOrder", orderID, orderGrandTotal,
		orderSubTotal.Value(), orderTax.Value(), orderShipping.Value(), orderDiscount.Value())
}
