// Package compileinfo reports the VCS provenance embedded in a binary, so that
// results files can be traced back to the code that produced them.
package compileinfo

import (
	"fmt"
	"io"
	"path"
	"runtime/debug"
)

type CompileInfo struct {
	Binary     string
	Module     string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.Binary == "" {
		return "Build information is not available for this binary."
	}

	commit := c.Commit
	if commit == "" {
		commit = "(unknown)"
	}

	mod := ""
	if c.Modified {
		mod = " Working tree had uncommitted changes."
	}

	return fmt.Sprintf("%s (%s) built with %s at commit %s %s.%s", c.Binary, c.Module, c.GoVersion, commit, c.CommitTime, mod)
}

// FromBuildInfo extracts provenance from the runtime's build information.
func FromBuildInfo(z *debug.BuildInfo) CompileInfo {
	out := CompileInfo{}
	if z == nil {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Binary = path.Base(z.Path)
	out.Module = z.Main.Path
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

func Get() CompileInfo {
	z, ok := debug.ReadBuildInfo()
	if !ok {
		return CompileInfo{}
	}

	return FromBuildInfo(z)
}

func Fprint(w io.Writer) {
	fmt.Fprintln(w, Get())
}
