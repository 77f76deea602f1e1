// compileinfoprint is imported for the side effect of printing the compileinfo
// to os.Stderr before any flags are parsed.
package compileinfoprint

import (
	"os"

	"github.com/ckrueger2/mesa-pwas/compileinfo"
)

func init() {
	compileinfo.Fprint(os.Stderr)
}
