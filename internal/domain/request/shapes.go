package request

import (
	"fmt"
	"strings"

	"github.com/okian/clientscore/internal/domain/field"
)

// AdminLogin distinguishes the admin identity. It is a value check on the
// login field, not a separate request shape.
const AdminLogin = "admin"

// Method names accepted by the dispatcher.
const (
	MethodOnlineScore      = "online_score"
	MethodClientsInterests = "clients_interests"
)

// scoreCombinations lists the field sets of which at least one must be
// fully present in a valid online-score request.
var scoreCombinations = [][]string{
	{"phone", "email"},
	{"first_name", "last_name"},
	{"gender", "birthday"},
}

// Schemas are built once at startup and never mutated afterwards.
var (
	methodSchema = NewRegistry().
			Register("account", field.NewChar(field.Optional(), field.Nullable())).
			Register("login", field.NewChar(field.Nullable())).
			Register("token", field.NewChar(field.Nullable())).
			Register("arguments", field.NewArguments(field.Nullable())).
			Register("method", field.NewChar())

	onlineScoreSchema = NewRegistry().
				Register("first_name", field.NewChar(field.Optional(), field.Nullable())).
				Register("last_name", field.NewChar(field.Optional(), field.Nullable())).
				Register("email", field.NewEmail(field.Optional(), field.Nullable())).
				Register("phone", field.NewPhone(field.Optional(), field.Nullable())).
				Register("birthday", field.NewBirthday(field.Optional(), field.Nullable())).
				Register("gender", field.NewGender(field.Optional(), field.Nullable()))

	clientsInterestsSchema = NewRegistry().
				Register("client_ids", field.NewClientIDs()).
				Register("date", field.NewDate(field.Optional(), field.Nullable()))
)

// Method is the validated outer envelope of every call.
type Method struct {
	Result
}

// ValidateMethod validates the raw envelope body.
func ValidateMethod(raw map[string]any) Method {
	return Method{Result: methodSchema.Validate(raw)}
}

// IsAdmin reports whether the caller authenticates as the admin identity.
func (m Method) IsAdmin() bool { return m.Str("login") == AdminLogin }

// Account returns the caller's account name, possibly empty.
func (m Method) Account() string { return m.Str("account") }

// Login returns the caller's login, possibly empty.
func (m Method) Login() string { return m.Str("login") }

// Token returns the supplied authentication token.
func (m Method) Token() string { return m.Str("token") }

// Name returns the requested method name.
func (m Method) Name() string { return m.Str("method") }

// Arguments returns the opaque argument structure, or nil.
func (m Method) Arguments() map[string]any { return m.Args("arguments") }

// OnlineScore is the validated argument shape of the online_score method.
type OnlineScore struct {
	Result
}

// ValidateOnlineScore validates the online_score arguments, including the
// combination constraint: at least one of the declared field pairs must be
// fully present.
func ValidateOnlineScore(raw map[string]any) OnlineScore {
	res := onlineScoreSchema.Validate(raw)
	if res.Valid() && !hasCombination(res) {
		res.fail("", fmt.Sprintf("%s: request must include at least one of %s",
			ErrCombination.Error(), describeCombinations()))
	}
	return OnlineScore{Result: res}
}

func hasCombination(res Result) bool {
	for _, combo := range scoreCombinations {
		complete := true
		for _, name := range combo {
			if !res.Has(name) {
				complete = false
				break
			}
		}
		if complete {
			return true
		}
	}
	return false
}

func describeCombinations() string {
	parts := make([]string, len(scoreCombinations))
	for i, combo := range scoreCombinations {
		parts[i] = strings.Join(combo, "+")
	}
	return strings.Join(parts, ", ")
}

// PresentFields returns the names of fields that validated to non-nil
// values, in schema order.
func (s OnlineScore) PresentFields() []string {
	var out []string
	for _, name := range onlineScoreSchema.Names() {
		if s.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// ClientsInterests is the validated argument shape of the
// clients_interests method.
type ClientsInterests struct {
	Result
}

// ValidateClientsInterests validates the clients_interests arguments.
func ValidateClientsInterests(raw map[string]any) ClientsInterests {
	return ClientsInterests{Result: clientsInterestsSchema.Validate(raw)}
}

// ClientIDs returns the requested client identifiers.
func (c ClientsInterests) ClientIDs() []int { return c.IDs("client_ids") }
