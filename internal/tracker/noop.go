package tracker

import (
	"github.com/kyleseneker/matomo-contract/internal/logging"
)

var _ Tracker = (*Noop)(nil)

// Noop is a placeholder tracker used before a real one is assigned.
// Every call is dropped with a warning. Accessors return empty values,
// except GetVisitorID which returns a well-formed id fixed at construction.
type Noop struct {
	logger    logging.Logger
	visitorID VisitorID
}

// NewNoop returns a placeholder tracker logging to logger.
func NewNoop(logger logging.Logger) *Noop {
	return &Noop{logger: logger.Named("noop_tracker"), visitorID: RandomVisitorID()}
}

func (n *Noop) drop(method string) {
	n.logger.Warn("Dropping tracking call, no tracker assigned", "method", method)
}

func (n *Noop) TrackPageView(Opt[string]) {
	n.drop("TrackPageView")
}

func (n *Noop) TrackEvent(string, string, Opt[string], Opt[float64]) {
	n.drop("TrackEvent")
}

func (n *Noop) TrackSiteSearch(string, Opt[string], Opt[int]) {
	n.drop("TrackSiteSearch")
}

func (n *Noop) TrackLink(string, LinkType) {
	n.drop("TrackLink")
}

func (n *Noop) TrackGoal(int, Opt[float64]) {
	n.drop("TrackGoal")
}

func (n *Noop) EnableHeartBeatTimer(Opt[int]) {
	n.drop("EnableHeartBeatTimer")
}

func (n *Noop) EnableLinkTracking(Opt[bool]) {
	n.drop("EnableLinkTracking")
}

func (n *Noop) SetCustomURL(string) {
	n.drop("SetCustomURL")
}

func (n *Noop) SetDoNotTrack(bool) {
	n.drop("SetDoNotTrack")
}

func (n *Noop) SetCustomDimension(int, string) {
	n.drop("SetCustomDimension")
}

func (n *Noop) DeleteCustomDimension(int) {
	n.drop("DeleteCustomDimension")
}

func (n *Noop) SetCustomVariable(int, string, string, Opt[Scope]) {
	n.drop("SetCustomVariable")
}

func (n *Noop) DeleteCustomVariable(int, Opt[Scope]) {
	n.drop("DeleteCustomVariable")
}

func (n *Noop) SetReferrerURL(string) {
	n.drop("SetReferrerURL")
}

func (n *Noop) SetGenerationTimeMs(int) {
	n.drop("SetGenerationTimeMs")
}

func (n *Noop) SetUserID(string) {
	n.drop("SetUserID")
}

func (n *Noop) ResetUserID() {
	n.drop("ResetUserID")
}

func (n *Noop) GetVisitorID() VisitorID {
	n.drop("GetVisitorID")
	return n.visitorID
}

func (n *Noop) GetVisitorInfo() VisitorInfo {
	n.drop("GetVisitorInfo")
	return nil
}

func (n *Noop) RequireConsent() {
	n.drop("RequireConsent")
}

func (n *Noop) SetConsentGiven() {
	n.drop("SetConsentGiven")
}

func (n *Noop) ForgetConsentGiven() {
	n.drop("ForgetConsentGiven")
}

func (n *Noop) SetCookieConsentGiven() {
	n.drop("SetCookieConsentGiven")
}

func (n *Noop) ForgetCookieConsentGiven() {
	n.drop("ForgetCookieConsentGiven")
}

func (n *Noop) RequireCookieConsent() {
	n.drop("RequireCookieConsent")
}

func (n *Noop) OptUserOut() {
	n.drop("OptUserOut")
}

func (n *Noop) ForgetUserOptOut() {
	n.drop("ForgetUserOptOut")
}

func (n *Noop) HasRememberedConsent() bool {
	n.drop("HasRememberedConsent")
	return false
}

func (n *Noop) DisableCookies() {
	n.drop("DisableCookies")
}

func (n *Noop) EnableCookies() {
	n.drop("EnableCookies")
}

func (n *Noop) DeleteCookies() {
	n.drop("DeleteCookies")
}

func (n *Noop) SetCookieDomain(string) {
	n.drop("SetCookieDomain")
}

func (n *Noop) SetCookiePath(string) {
	n.drop("SetCookiePath")
}

func (n *Noop) SetSecureCookie(bool) {
	n.drop("SetSecureCookie")
}

func (n *Noop) SetVisitorCookieTimeout(int) {
	n.drop("SetVisitorCookieTimeout")
}

func (n *Noop) SetSessionCookieTimeout(int) {
	n.drop("SetSessionCookieTimeout")
}

func (n *Noop) SetReferralCookieTimeout(int) {
	n.drop("SetReferralCookieTimeout")
}

func (n *Noop) SetCookieNamePrefix(string) {
	n.drop("SetCookieNamePrefix")
}

func (n *Noop) AlwaysUseSendBeacon() {
	n.drop("AlwaysUseSendBeacon")
}

func (n *Noop) EnableCrossDomainLinking() {
	n.drop("EnableCrossDomainLinking")
}

func (n *Noop) DisableCrossDomainLinking() {
	n.drop("DisableCrossDomainLinking")
}

func (n *Noop) SetDomains([]string) {
	n.drop("SetDomains")
}

func (n *Noop) GetCrossDomainLinkingURLParameter() string {
	n.drop("GetCrossDomainLinkingURLParameter")
	return ""
}

func (n *Noop) TrackAllContentImpressions() {
	n.drop("TrackAllContentImpressions")
}

func (n *Noop) TrackVisibleContentImpressions(Opt[bool], Opt[int]) {
	n.drop("TrackVisibleContentImpressions")
}

func (n *Noop) TrackContentImpression(string, string, string) {
	n.drop("TrackContentImpression")
}

func (n *Noop) TrackContentInteraction(string, string, string, string) {
	n.drop("TrackContentInteraction")
}

func (n *Noop) AddEcommerceItem(string, string, Category, float64, Opt[int]) {
	n.drop("AddEcommerceItem")
}

func (n *Noop) RemoveEcommerceItem(string) {
	n.drop("RemoveEcommerceItem")
}

func (n *Noop) ClearEcommerceCart() {
	n.drop("ClearEcommerceCart")
}

func (n *Noop) GetEcommerceItems() CartItems {
	n.drop("GetEcommerceItems")
	return CartItems{}
}

func (n *Noop) TrackEcommerceCartUpdate(float64) {
	n.drop("TrackEcommerceCartUpdate")
}

func (n *Noop) TrackEcommerceOrder(string, float64, Opt[float64], Opt[float64], Opt[float64], Opt[float64]) {
	n.drop("TrackEcommerceOrder")
}
