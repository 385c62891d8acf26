package secret

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
)

// expansionPattern matches the two tokens ExpandEnv rewrites: "$$" and
// "${VAR}". A bare $VAR stays literal so values containing stray dollars
// survive untouched.
var expansionPattern = regexp.MustCompile(`\$\$|\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnv substitutes ${VAR} from the environment. Referencing an unset
// variable is an error, so a missing credential fails at startup instead
// of as a 401 on the first upstream call. "$$" emits a literal dollar.
func ExpandEnv(s string) (string, error) {
	var missing []string
	out := expansionPattern.ReplaceAllStringFunc(s, func(tok string) string {
		if tok == "$$" {
			return "$"
		}
		name := tok[2 : len(tok)-1]
		value, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
			return ""
		}
		return value
	})
	if len(missing) > 0 {
		slices.Sort(missing)
		missing = slices.Compact(missing)
		return "", fmt.Errorf("secret: unset environment variables: %s", strings.Join(missing, ", "))
	}
	return out, nil
}
