package classlens

import (
	"context"
	"fmt"

	"github.com/yacobolo/classlens/internal/logging"
)

// Compile runs token through the compiler of snap. It never fails: a token
// the compiler rejects, or one that makes it panic, yields an empty rule.
func Compile(ctx context.Context, token string, snap *Snapshot) CompiledRule {
	rule := CompiledRule{Token: token}
	if token == "" || snap == nil || snap.Compiler == nil {
		return rule
	}

	css, err := safeCompile(ctx, snap.Compiler, token)
	if err != nil {
		logging.FromContext(ctx).Debug("compile failed",
			logging.FieldToken, token,
			logging.FieldVersion, snap.Version,
			logging.FieldError, err)
		return rule
	}
	rule.CSS = css
	return rule
}

func safeCompile(ctx context.Context, c Compiler, token string) (css string, err error) {
	defer func() {
		if r := recover(); r != nil {
			css, err = "", fmt.Errorf("compiler panic: %v", r)
		}
	}()
	return c.Compile(ctx, token)
}
