// Package invoke describes every tracker operation and calls them by name
// with string arguments, as typed on a command line.
package invoke

import (
	"strings"

	"github.com/kyleseneker/matomo-contract/internal/tracker"
)

// Kind is the type of an operation parameter.
type Kind string

const (
	KindString   Kind = "string"
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindBool     Kind = "bool"
	KindScope    Kind = "scope"     // page | visit
	KindLinkType Kind = "link_type" // link | download
	KindCategory Kind = "category"  // one name, or a comma separated list
	KindStrings  Kind = "strings"   // comma separated
)

// Param describes one operation parameter.
type Param struct {
	Name     string
	Kind     Kind
	Optional bool
}

// Operation describes one tracker operation.
type Operation struct {
	Name    string
	Group   string
	Params  []Param
	Returns string // empty for fire-and-forget operations

	call func(t tracker.Tracker, v values) any
}

// Required returns the number of leading parameters that must be given.
func (op Operation) Required() int {
	n := 0
	for _, p := range op.Params {
		if p.Optional {
			break
		}
		n++
	}
	return n
}

// Signature renders the operation as "Name(a string, b? int) result".
func (op Operation) Signature() string {
	parts := make([]string, len(op.Params))
	for i, p := range op.Params {
		name := p.Name
		if p.Optional {
			name += "?"
		}
		parts[i] = name + " " + string(p.Kind)
	}
	sig := op.Name + "(" + strings.Join(parts, ", ") + ")"
	if op.Returns != "" {
		sig += " " + op.Returns
	}
	return sig
}

const (
	GroupTracking    = "tracking"
	GroupConfig      = "configuration"
	GroupConsent     = "consent"
	GroupCookies     = "cookies"
	GroupCrossDomain = "cross-domain"
	GroupContent     = "content"
	GroupEcommerce   = "e-commerce"
)

func req(name string, kind Kind) Param { return Param{Name: name, Kind: kind} }
func opt(name string, kind Kind) Param { return Param{Name: name, Kind: kind, Optional: true} }

var catalogue = []Operation{
	// Page and event tracking
	{Name: "TrackPageView", Group: GroupTracking, Params: []Param{opt("customTitle", KindString)},
		call: func(t tracker.Tracker, v values) any {
			t.TrackPageView(optional[string](v, 0))
			return nil
		}},
	{Name: "TrackEvent", Group: GroupTracking,
		Params: []Param{req("category", KindString), req("action", KindString), opt("name", KindString), opt("value", KindFloat)},
		call: func(t tracker.Tracker, v values) any {
			t.TrackEvent(v.str(0), v.str(1), optional[string](v, 2), optional[float64](v, 3))
			return nil
		}},
	{Name: "TrackSiteSearch", Group: GroupTracking,
		Params: []Param{req("keyword", KindString), opt("category", KindString), opt("resultsCount", KindInt)},
		call: func(t tracker.Tracker, v values) any {
			t.TrackSiteSearch(v.str(0), optional[string](v, 1), optional[int](v, 2))
			return nil
		}},
	{Name: "TrackLink", Group: GroupTracking, Params: []Param{req("url", KindString), req("linkType", KindLinkType)},
		call: func(t tracker.Tracker, v values) any {
			t.TrackLink(v.str(0), v[1].(tracker.LinkType))
			return nil
		}},
	{Name: "TrackGoal", Group: GroupTracking, Params: []Param{req("goalId", KindInt), opt("customRevenue", KindFloat)},
		call: func(t tracker.Tracker, v values) any {
			t.TrackGoal(v.integer(0), optional[float64](v, 1))
			return nil
		}},
	{Name: "EnableHeartBeatTimer", Group: GroupTracking, Params: []Param{opt("activeTimeInSeconds", KindInt)},
		call: func(t tracker.Tracker, v values) any {
			t.EnableHeartBeatTimer(optional[int](v, 0))
			return nil
		}},
	{Name: "EnableLinkTracking", Group: GroupTracking, Params: []Param{opt("enable", KindBool)},
		call: func(t tracker.Tracker, v values) any {
			t.EnableLinkTracking(optional[bool](v, 0))
			return nil
		}},

	// Request customisation
	{Name: "SetCustomURL", Group: GroupConfig, Params: []Param{req("url", KindString)},
		call: func(t tracker.Tracker, v values) any {
			t.SetCustomURL(v.str(0))
			return nil
		}},
	{Name: "SetDoNotTrack", Group: GroupConfig, Params: []Param{req("enable", KindBool)},
		call: func(t tracker.Tracker, v values) any {
			t.SetDoNotTrack(v.boolean(0))
			return nil
		}},
	{Name: "SetCustomDimension", Group: GroupConfig, Params: []Param{req("dimensionId", KindInt), req("value", KindString)},
		call: func(t tracker.Tracker, v values) any {
			t.SetCustomDimension(v.integer(0), v.str(1))
			return nil
		}},
	{Name: "DeleteCustomDimension", Group: GroupConfig, Params: []Param{req("dimensionId", KindInt)},
		call: func(t tracker.Tracker, v values) any {
			t.DeleteCustomDimension(v.integer(0))
			return nil
		}},
	{Name: "SetCustomVariable", Group: GroupConfig,
		Params: []Param{req("index", KindInt), req("name", KindString), req("value", KindString), opt("scope", KindScope)},
		call: func(t tracker.Tracker, v values) any {
			t.SetCustomVariable(v.integer(0), v.str(1), v.str(2), optional[tracker.Scope](v, 3))
			return nil
		}},
	{Name: "DeleteCustomVariable", Group: GroupConfig, Params: []Param{req("index", KindInt), opt("scope", KindScope)},
		call: func(t tracker.Tracker, v values) any {
			t.DeleteCustomVariable(v.integer(0), optional[tracker.Scope](v, 1))
			return nil
		}},
	{Name: "SetReferrerURL", Group: GroupConfig, Params: []Param{req("url", KindString)},
		call: func(t tracker.Tracker, v values) any {
			t.SetReferrerURL(v.str(0))
			return nil
		}},
	{Name: "SetGenerationTimeMs", Group: GroupConfig, Params: []Param{req("timeMs", KindInt)},
		call: func(t tracker.Tracker, v values) any {
			t.SetGenerationTimeMs(v.integer(0))
			return nil
		}},
	{Name: "SetUserID", Group: GroupConfig, Params: []Param{req("userId", KindString)},
		call: func(t tracker.Tracker, v values) any {
			t.SetUserID(v.str(0))
			return nil
		}},
	{Name: "ResetUserID", Group: GroupConfig,
		call: func(t tracker.Tracker, v values) any {
			t.ResetUserID()
			return nil
		}},
	{Name: "GetVisitorID", Group: GroupConfig, Returns: "visitor_id",
		call: func(t tracker.Tracker, v values) any { return t.GetVisitorID() }},
	{Name: "GetVisitorInfo", Group: GroupConfig, Returns: "visitor_info",
		call: func(t tracker.Tracker, v values) any { return t.GetVisitorInfo() }},

	// Consent
	{Name: "RequireConsent", Group: GroupConsent,
		call: func(t tracker.Tracker, v values) any {
			t.RequireConsent()
			return nil
		}},
	{Name: "SetConsentGiven", Group: GroupConsent,
		call: func(t tracker.Tracker, v values) any {
			t.SetConsentGiven()
			return nil
		}},
	{Name: "ForgetConsentGiven", Group: GroupConsent,
		call: func(t tracker.Tracker, v values) any {
			t.ForgetConsentGiven()
			return nil
		}},
	{Name: "SetCookieConsentGiven", Group: GroupConsent,
		call: func(t tracker.Tracker, v values) any {
			t.SetCookieConsentGiven()
			return nil
		}},
	{Name: "ForgetCookieConsentGiven", Group: GroupConsent,
		call: func(t tracker.Tracker, v values) any {
			t.ForgetCookieConsentGiven()
			return nil
		}},
	{Name: "RequireCookieConsent", Group: GroupConsent,
		call: func(t tracker.Tracker, v values) any {
			t.RequireCookieConsent()
			return nil
		}},
	{Name: "HasRememberedConsent", Group: GroupConsent, Returns: "bool",
		call: func(t tracker.Tracker, v values) any { return t.HasRememberedConsent() }},
	{Name: "OptUserOut", Group: GroupConsent,
		call: func(t tracker.Tracker, v values) any {
			t.OptUserOut()
			return nil
		}},
	{Name: "ForgetUserOptOut", Group: GroupConsent,
		call: func(t tracker.Tracker, v values) any {
			t.ForgetUserOptOut()
			return nil
		}},

	// Cookies
	{Name: "DisableCookies", Group: GroupCookies,
		call: func(t tracker.Tracker, v values) any {
			t.DisableCookies()
			return nil
		}},
	{Name: "EnableCookies", Group: GroupCookies,
		call: func(t tracker.Tracker, v values) any {
			t.EnableCookies()
			return nil
		}},
	{Name: "DeleteCookies", Group: GroupCookies,
		call: func(t tracker.Tracker, v values) any {
			t.DeleteCookies()
			return nil
		}},
	{Name: "SetCookieDomain", Group: GroupCookies, Params: []Param{req("domain", KindString)},
		call: func(t tracker.Tracker, v values) any {
			t.SetCookieDomain(v.str(0))
			return nil
		}},
	{Name: "SetCookiePath", Group: GroupCookies, Params: []Param{req("path", KindString)},
		call: func(t tracker.Tracker, v values) any {
			t.SetCookiePath(v.str(0))
			return nil
		}},
	{Name: "SetSecureCookie", Group: GroupCookies, Params: []Param{req("secure", KindBool)},
		call: func(t tracker.Tracker, v values) any {
			t.SetSecureCookie(v.boolean(0))
			return nil
		}},
	{Name: "SetVisitorCookieTimeout", Group: GroupCookies, Params: []Param{req("seconds", KindInt)},
		call: func(t tracker.Tracker, v values) any {
			t.SetVisitorCookieTimeout(v.integer(0))
			return nil
		}},
	{Name: "SetSessionCookieTimeout", Group: GroupCookies, Params: []Param{req("seconds", KindInt)},
		call: func(t tracker.Tracker, v values) any {
			t.SetSessionCookieTimeout(v.integer(0))
			return nil
		}},
	{Name: "SetReferralCookieTimeout", Group: GroupCookies, Params: []Param{req("seconds", KindInt)},
		call: func(t tracker.Tracker, v values) any {
			t.SetReferralCookieTimeout(v.integer(0))
			return nil
		}},
	{Name: "SetCookieNamePrefix", Group: GroupCookies, Params: []Param{req("prefix", KindString)},
		call: func(t tracker.Tracker, v values) any {
			t.SetCookieNamePrefix(v.str(0))
			return nil
		}},
	{Name: "AlwaysUseSendBeacon", Group: GroupCookies,
		call: func(t tracker.Tracker, v values) any {
			t.AlwaysUseSendBeacon()
			return nil
		}},

	// Cross-domain linking
	{Name: "EnableCrossDomainLinking", Group: GroupCrossDomain,
		call: func(t tracker.Tracker, v values) any {
			t.EnableCrossDomainLinking()
			return nil
		}},
	{Name: "DisableCrossDomainLinking", Group: GroupCrossDomain,
		call: func(t tracker.Tracker, v values) any {
			t.DisableCrossDomainLinking()
			return nil
		}},
	{Name: "SetDomains", Group: GroupCrossDomain, Params: []Param{req("domains", KindStrings)},
		call: func(t tracker.Tracker, v values) any {
			t.SetDomains(v[0].([]string))
			return nil
		}},
	{Name: "GetCrossDomainLinkingURLParameter", Group: GroupCrossDomain, Returns: "string",
		call: func(t tracker.Tracker, v values) any { return t.GetCrossDomainLinkingURLParameter() }},

	// Content tracking
	{Name: "TrackAllContentImpressions", Group: GroupContent,
		call: func(t tracker.Tracker, v values) any {
			t.TrackAllContentImpressions()
			return nil
		}},
	{Name: "TrackVisibleContentImpressions", Group: GroupContent,
		Params: []Param{opt("checkOnScroll", KindBool), opt("watchInterval", KindInt)},
		call: func(t tracker.Tracker, v values) any {
			t.TrackVisibleContentImpressions(optional[bool](v, 0), optional[int](v, 1))
			return nil
		}},
	{Name: "TrackContentImpression", Group: GroupContent,
		Params: []Param{req("contentName", KindString), req("contentPiece", KindString), req("contentTarget", KindString)},
		call: func(t tracker.Tracker, v values) any {
			t.TrackContentImpression(v.str(0), v.str(1), v.str(2))
			return nil
		}},
	{Name: "TrackContentInteraction", Group: GroupContent,
		Params: []Param{req("interaction", KindString), req("contentName", KindString), req("contentPiece", KindString), req("contentTarget", KindString)},
		call: func(t tracker.Tracker, v values) any {
			t.TrackContentInteraction(v.str(0), v.str(1), v.str(2), v.str(3))
			return nil
		}},

	// E-commerce
	{Name: "AddEcommerceItem", Group: GroupEcommerce,
		Params: []Param{req("productSKU", KindString), req("productName", KindString), req("productCategory", KindCategory),
			req("productPrice", KindFloat), opt("quantity", KindInt)},
		call: func(t tracker.Tracker, v values) any {
			t.AddEcommerceItem(v.str(0), v.str(1), v[2].(tracker.Category), v.float(3), optional[int](v, 4))
			return nil
		}},
	{Name: "RemoveEcommerceItem", Group: GroupEcommerce, Params: []Param{req("productSKU", KindString)},
		call: func(t tracker.Tracker, v values) any {
			t.RemoveEcommerceItem(v.str(0))
			return nil
		}},
	{Name: "ClearEcommerceCart", Group: GroupEcommerce,
		call: func(t tracker.Tracker, v values) any {
			t.ClearEcommerceCart()
			return nil
		}},
	{Name: "GetEcommerceItems", Group: GroupEcommerce, Returns: "cart_items",
		call: func(t tracker.Tracker, v values) any { return t.GetEcommerceItems() }},
	{Name: "TrackEcommerceCartUpdate", Group: GroupEcommerce, Params: []Param{req("cartAmount", KindFloat)},
		call: func(t tracker.Tracker, v values) any {
			t.TrackEcommerceCartUpdate(v.float(0))
			return nil
		}},
	{Name: "TrackEcommerceOrder", Group: GroupEcommerce,
		Params: []Param{req("orderId", KindString), req("orderGrandTotal", KindFloat), opt("orderSubTotal", KindFloat),
			opt("orderTax", KindFloat), opt("orderShipping", KindFloat), opt("orderDiscount", KindFloat)},
		call: func(t tracker.Tracker, v values) any {
			t.TrackEcommerceOrder(v.str(0), v.float(1),
				optional[float64](v, 2), optional[float64](v, 3), optional[float64](v, 4), optional[float64](v, 5))
			return nil
		}},
}

// Catalogue returns every tracker operation in declaration order.
func Catalogue() []Operation {
	out := make([]Operation, len(catalogue))
	copy(out, catalogue)
	return out
}

// Lookup finds an operation by name, ignoring case, so both "TrackEvent"
// and the client's own "trackEvent" spelling resolve.
func Lookup(name string) (Operation, bool) {
	for _, op := range catalogue {
		if strings.EqualFold(op.Name, name) {
			return op, true
		}
	}
	return Operation{}, false
}
