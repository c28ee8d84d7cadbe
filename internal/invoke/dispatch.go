package invoke

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/kyleseneker/matomo-contract/internal/tracker"
)

var (
	ErrUnknownMethod = errors.New("unknown method")
	ErrArgCount      = errors.New("wrong number of arguments")
	ErrBadArgument   = errors.New("bad argument")
)

// Omitted is the argument that skips an optional parameter, so a later one
// can still be given.
const Omitted = "-"

// values holds parsed arguments; omitted optionals are nil.
type values []any

func (v values) str(i int) string {
	return v[i].(string)
}

func (v values) integer(i int) int {
	return v[i].(int)
}

func (v values) float(i int) float64 {
	return v[i].(float64)
}

func (v values) boolean(i int) bool {
	return v[i].(bool)
}

func optional[T any](v values, i int) tracker.Opt[T] {
	if v[i] == nil {
		return tracker.None[T]()
	}
	return tracker.Some(v[i].(T))
}

// Dispatch parses args for method and invokes it on t. It returns the
// accessor result, or nil for fire-and-forget operations.
func Dispatch(t tracker.Tracker, method string, args []string) (any, error) {
	op, ok := Lookup(method)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownMethod, method)
	}

	if len(args) < op.Required() || len(args) > len(op.Params) {
		return nil, fmt.Errorf("%w for %s: got %d, want %s", ErrArgCount, op.Name, len(args), arity(op))
	}

	v := make(values, len(op.Params))
	for i, p := range op.Params {
		if i >= len(args) {
			break
		}
		raw := args[i]
		if p.Optional && raw == Omitted {
			continue
		}
		if !p.Optional && raw == Omitted {
			return nil, fmt.Errorf("%w: %s of %s is required", ErrBadArgument, p.Name, op.Name)
		}
		parsed, err := parse(p.Kind, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s of %s: %v", ErrBadArgument, p.Name, op.Name, err)
		}
		v[i] = parsed
	}

	return op.call(t, v), nil
}

func arity(op Operation) string {
	if op.Required() == len(op.Params) {
		return fmt.Sprintf("%d", len(op.Params))
	}
	return fmt.Sprintf("%d to %d", op.Required(), len(op.Params))
}

func parse(kind Kind, raw string) (any, error) {
	switch kind {
	case KindString:
		return raw, nil
	case KindInt:
		// Decimal only: cast would read "010" as octal and accept "0x10".
		return strconv.Atoi(strings.TrimSpace(raw))
	case KindFloat:
		f, err := cast.ToFloat64E(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%q is not a finite number", raw)
		}
		return f, nil
	case KindBool:
		return cast.ToBoolE(raw)
	case KindScope:
		return tracker.ParseScope(raw)
	case KindLinkType:
		return tracker.ParseLinkType(raw)
	case KindCategory:
		names, isList := splitList(raw)
		if isList {
			return tracker.CategoryList(names...), nil
		}
		if len(names) == 0 {
			return tracker.SingleCategory(""), nil
		}
		return tracker.SingleCategory(names[0]), nil
	case KindStrings:
		names, _ := splitList(raw)
		return names, nil
	default:
		return nil, fmt.Errorf("unsupported parameter kind %q", kind)
	}
}

// splitList splits raw on commas. A backslash before a comma (\,) keeps it literal.
// isList reports whether raw held an unescaped comma.
func splitList(raw string) (parts []string, isList bool) {
	parts = []string{}
	var cur strings.Builder
	flush := func() {
		if part := strings.TrimSpace(cur.String()); part != "" {
			parts = append(parts, part)
		}
		cur.Reset()
	}
	for i := 0; i < len(raw); i++ {
		switch {
		case raw[i] == '\\' && i+1 < len(raw) && raw[i+1] == ',':
			cur.WriteByte(',')
			i++
		case raw[i] == ',':
			isList = true
			flush()
		default:
			cur.WriteByte(raw[i])
		}
	}
	flush()
	return parts, isList
}
