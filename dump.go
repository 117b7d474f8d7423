package nutriplan

import (
	"fmt"
	"runtime"

	"github.com/davecgh/go-spew/spew"
)

func Dump(v ...any) {
	_, file, line, _ := runtime.Caller(1)
	args := append([]any{fmt.Sprintf("%s:%d:", file, line)}, v...)
	spew.Dump(args...)
}

// DumpPlan prints the plan with spew when enabled, prefixed with the caller location.
func DumpPlan(enabled bool, plan *MealPlan) {
	if !enabled || plan == nil {
		return
	}
	_, file, line, _ := runtime.Caller(1)
	spew.Dump(fmt.Sprintf("%s:%d:", file, line), plan)
}
