package credential

import (
	"fmt"
	"os"
	"strings"

	"catalog-kit/internal/domain"
)

// Credential file options copied into the environment by SetAWSEnv, with the
// variable each one sets.
var awsEnv = []struct{ option, env string }{
	{"aws_access_key_id", "AWS_ACCESS_KEY_ID"},
	{"aws_secret_access_key", "AWS_SECRET_ACCESS_KEY"},
	{"aws_session_token", "AWS_SESSION_TOKEN"},
}

// SetAWSEnv exports the record's AWS access key id, secret access key and
// session token as AWS_* environment variables.
//
// The variables are process-wide and stay set for the life of the process;
// there is no way to undo this call. Every option must be present; nothing is
// set when one is missing.
func SetAWSEnv(rec Record) error {
	for _, e := range awsEnv {
		if _, ok := rec[e.option]; !ok {
			return domain.ErrValidation("credential option %q is missing", e.option)
		}
	}
	for _, e := range awsEnv {
		if err := os.Setenv(e.env, rec[e.option]); err != nil {
			return fmt.Errorf("setenv %s: %w", e.env, err)
		}
	}
	return nil
}

// ExportLines renders the record as shell export statements for the same
// variables SetAWSEnv sets.
func ExportLines(rec Record) ([]string, error) {
	lines := make([]string, 0, len(awsEnv))
	for _, e := range awsEnv {
		v, ok := rec[e.option]
		if !ok {
			return nil, domain.ErrValidation("credential option %q is missing", e.option)
		}
		lines = append(lines, fmt.Sprintf("export %s=%s", e.env, shellQuote(v)))
	}
	return lines, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
