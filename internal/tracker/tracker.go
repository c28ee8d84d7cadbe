// Package tracker declares the operations a web-analytics tracking client
// exposes to the rest of an application, and holds the process-wide current
// client.
//
// The method set mirrors the Matomo JavaScript tracker API
// (https://developer.matomo.org/api-reference/tracking-javascript).
// Every operation is fire-and-forget: implementations own transport, retries
// and failure handling, and never report errors through this interface.
package tracker

// PageTracker logs page views, events and related interactions.
type PageTracker interface {
	// TrackPageView logs a page view, optionally with a custom title.
	TrackPageView(customTitle Opt[string])
	// TrackEvent logs an event with a category (Videos, Music...), an action
	// (Play, Pause...) and an optional name and numeric value.
	TrackEvent(category, action string, name Opt[string], value Opt[float64])
	// TrackSiteSearch logs an internal site search for keyword, in an optional
	// category, with the optional count of results on the page.
	TrackSiteSearch(keyword string, category Opt[string], resultsCount Opt[int])
	// TrackLink logs a click on an outbound or download link.
	TrackLink(url string, linkType LinkType)
	// TrackGoal logs a goal conversion.
	TrackGoal(goalID int, customRevenue Opt[float64])
	// EnableHeartBeatTimer installs a timer that sends extra requests to
	// measure time spent in the visit.
	EnableHeartBeatTimer(activeTimeInSeconds Opt[int])
	// EnableLinkTracking installs click tracking on all applicable links.
	// When enable is true, middle click and context menu count as clicks.
	EnableLinkTracking(enable Opt[bool])
}

// Configurator customises what is reported with each request.
type Configurator interface {
	SetCustomURL(url string)
	// SetDoNotTrack skips tracking for visitors who set Do Not Track.
	SetDoNotTrack(enable bool)
	SetCustomDimension(dimensionID int, value string)
	DeleteCustomDimension(dimensionID int)
	// SetCustomVariable is deprecated in favour of custom dimensions.
	SetCustomVariable(index int, name, value string, scope Opt[Scope])
	DeleteCustomVariable(index int, scope Opt[Scope])
	SetReferrerURL(url string)
	SetGenerationTimeMs(timeMs int)
	// SetUserID sets the user id used for cross-device tracking.
	SetUserID(userID string)
	ResetUserID()
	GetVisitorID() VisitorID
	GetVisitorInfo() VisitorInfo
}

// ConsentManager manages tracking and cookie consent.
//
// Calling RequireConsent before other tracking calls gates their effect in
// the implementation.
type ConsentManager interface {
	RequireConsent()
	SetConsentGiven()
	// ForgetConsentGiven removes consent. No cookies are used afterwards.
	ForgetConsentGiven()
	SetCookieConsentGiven()
	ForgetCookieConsentGiven()
	RequireCookieConsent()
	HasRememberedConsent() bool
	OptUserOut()
	ForgetUserOptOut()
}

// CookieManager configures first-party tracking cookies.
type CookieManager interface {
	DisableCookies()
	EnableCookies()
	DeleteCookies()
	SetCookieDomain(domain string)
	SetCookiePath(path string)
	SetSecureCookie(secure bool)
	// SetVisitorCookieTimeout defaults to 13 months in the client.
	SetVisitorCookieTimeout(seconds int)
	// SetSessionCookieTimeout defaults to 30 minutes in the client.
	SetSessionCookieTimeout(seconds int)
	// SetReferralCookieTimeout defaults to 6 months in the client.
	SetReferralCookieTimeout(seconds int)
	// SetCookieNamePrefix defaults to "_pk_" in the client.
	SetCookieNamePrefix(prefix string)
	AlwaysUseSendBeacon()
}

// CrossDomainLinker keeps visitor identity across a set of domains.
type CrossDomainLinker interface {
	EnableCrossDomainLinking()
	DisableCrossDomainLinking()
	// SetDomains sets the hostnames or domains treated as local.
	SetDomains(domains []string)
	GetCrossDomainLinkingURLParameter() string
}

// ContentTracker logs content block impressions and interactions.
type ContentTracker interface {
	TrackAllContentImpressions()
	TrackVisibleContentImpressions(checkOnScroll Opt[bool], watchInterval Opt[int])
	TrackContentImpression(contentName, contentPiece, contentTarget string)
	TrackContentInteraction(interaction, contentName, contentPiece, contentTarget string)
}

// Ecommerce manages the cart and logs orders.
type Ecommerce interface {
	AddEcommerceItem(productSKU, productName string, productCategory Category, productPrice float64, quantity Opt[int])
	RemoveEcommerceItem(productSKU string)
	ClearEcommerceCart()
	GetEcommerceItems() CartItems
	TrackEcommerceCartUpdate(cartAmount float64)
	TrackEcommerceOrder(orderID string, orderGrandTotal float64, orderSubTotal, orderTax, orderShipping, orderDiscount Opt[float64])
}

// Tracker is the full tracking client API.
type Tracker interface {
	PageTracker
	Configurator
	ConsentManager
	CookieManager
	CrossDomainLinker
	ContentTracker
	Ecommerce
}
