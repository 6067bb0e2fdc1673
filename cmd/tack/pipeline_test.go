package main

import "testing"

func TestResolveOutput(t *testing.T) {
	cases := []struct {
		input, explicit, suffix, want string
	}{
		{"prog.tack", "", "", "prog"},
		{"prog.tack", "", ".ssa", "prog.ssa"},
		{"dir/prog.tack", "", ".s", "dir/prog.s"},
		{"prog.tack", "custom-out", ".o", "custom-out"},
	}
	for _, c := range cases {
		got := resolveOutput(c.input, c.explicit, c.suffix)
		if got != c.want {
			t.Errorf("resolveOutput(%q, %q, %q) = %q, want %q", c.input, c.explicit, c.suffix, got, c.want)
		}
	}
}

func TestStdlibArchiveMissingIsNotFound(t *testing.T) {
	// exeDir() resolves to the test binary's directory, which never ships
	// a libtack.a alongside it.
	if _, ok := stdlibArchive(); ok {
		t.Skip("a libtack.a happens to exist next to the test binary; nothing to assert")
	}
}
