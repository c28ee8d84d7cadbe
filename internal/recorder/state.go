package recorder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/kyleseneker/matomo-contract/internal/journal"
	"github.com/kyleseneker/matomo-contract/internal/tracker"
)

var errMissingArgument = errors.New("missing argument")

// apply updates the recorder state for one call. It serves both live calls
// and calls replayed from the journal, whose arguments have been through JSON.
// The caller holds r.mu.
func (r *Recorder) apply(call journal.Call) error {
	switch call.Method {
	case "GetVisitorID", "GetVisitorInfo", "GetCrossDomainLinkingURLParameter":
		return r.observeVisitorID(call)

	case "SetUserID":
		id, err := stringArg(call, 0)
		if err != nil {
			return err
		}
		r.userID = id
	case "ResetUserID":
		r.userID = ""

	case "RequireConsent", "RequireCookieConsent":
		r.consentRequired = true
	case "SetConsentGiven":
		r.consentGiven = true
	case "ForgetConsentGiven":
		r.consentGiven = false
		r.cookieConsent = false
	case "SetCookieConsentGiven":
		r.cookieConsent = true
	case "ForgetCookieConsentGiven":
		r.cookieConsent = false
	case "OptUserOut":
		r.optedOut = true
	case "ForgetUserOptOut":
		r.optedOut = false

	case "AddEcommerceItem":
		item, err := cartItem(call)
		if err != nil {
			return err
		}
		r.cart[item.SKU] = item
	case "RemoveEcommerceItem":
		sku, err := stringArg(call, 0)
		if err != nil {
			return err
		}
		delete(r.cart, sku)
	case "ClearEcommerceCart":
		r.cart = make(map[string]tracker.CartItem)
	case "TrackEcommerceOrder":
		r.lastOrderAt = call.Timestamp
		r.cart = make(map[string]tracker.CartItem)
	}
	return nil
}

// observeVisitorID adopts the visitor id an accessor handed out, unless the
// id was fixed by configuration.
func (r *Recorder) observeVisitorID(call journal.Call) error {
	if r.fixedVisitorID || call.Result == nil {
		return nil
	}

	var raw string
	switch call.Method {
	case "GetVisitorID":
		switch v := call.Result.(type) {
		case tracker.VisitorID:
			raw = string(v)
		case string:
			raw = v
		default:
			return fmt.Errorf("unexpected visitor id result %T", call.Result)
		}
	case "GetVisitorInfo":
		var info []any
		switch v := call.Result.(type) {
		case tracker.VisitorInfo:
			info = v
		case []any:
			info = v
		}
		if len(info) < 2 {
			return fmt.Errorf("unexpected visitor info result %v", call.Result)
		}
		s, err := cast.ToStringE(info[1])
		if err != nil {
			return fmt.Errorf("visitor info id: %w", err)
		}
		raw = s
	case "GetCrossDomainLinkingURLParameter":
		s, err := cast.ToStringE(call.Result)
		if err != nil {
			return err
		}
		_, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("malformed cross-domain parameter %q", s)
		}
		raw, _, _ = strings.Cut(value, ".")
	}

	id, err := tracker.ParseVisitorID(raw)
	if err != nil {
		return err
	}
	r.visitorID = id
	return nil
}

func arg(call journal.Call, i int) (any, error) {
	if i >= len(call.Args) {
		return nil, fmt.Errorf("%w %d of %s", errMissingArgument, i, call.Method)
	}
	return call.Args[i], nil
}

func stringArg(call journal.Call, i int) (string, error) {
	v, err := arg(call, i)
	if err != nil {
		return "", err
	}
	return cast.ToStringE(v)
}

// cartItem rebuilds the cart entry of an AddEcommerceItem call. An omitted
// quantity counts as 1.
func cartItem(call journal.Call) (tracker.CartItem, error) {
	if len(call.Args) < 4 {
		return tracker.CartItem{}, fmt.Errorf("%w: %s has %d arguments", errMissingArgument, call.Method, len(call.Args))
	}

	sku, err := cast.ToStringE(call.Args[0])
	if err != nil {
		return tracker.CartItem{}, fmt.Errorf("product SKU: %w", err)
	}
	name, err := cast.ToStringE(call.Args[1])
	if err != nil {
		return tracker.CartItem{}, fmt.Errorf("product name: %w", err)
	}

	var category tracker.Category
	if single, ok := call.Args[2].(string); ok {
		category = tracker.SingleCategory(single)
	} else {
		names, err := cast.ToStringSliceE(call.Args[2])
		if err != nil {
			return tracker.CartItem{}, fmt.Errorf("product category: %w", err)
		}
		category = tracker.CategoryList(names...)
	}

	price, err := cast.ToFloat64E(call.Args[3])
	if err != nil {
		return tracker.CartItem{}, fmt.Errorf("product price: %w", err)
	}

	quantity := 1
	if len(call.Args) > 4 && call.Args[4] != nil {
		if quantity, err = cast.ToIntE(call.Args[4]); err != nil {
			return tracker.CartItem{}, fmt.Errorf("quantity: %w", err)
		}
	}

	return tracker.CartItem{SKU: sku, Name: name, Category: category, Price: price, Quantity: quantity}, nil
}
