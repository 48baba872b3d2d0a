package backend

// CaptureWrapperArgs builds the argv an "internal exe" front end would
// exec to run argv and redirect its stdout to outputPath, for custom
// targets declared with capture: true: `<argv0> internal exe -c
// <output> -- <argv...>`. It only builds the argument slice; nothing
// here spawns a process, since actually running builds is out of scope.
func CaptureWrapperArgs(argv0, outputPath string, argv []string) []string {
	out := make([]string, 0, len(argv)+5)
	out = append(out, argv0, "internal", "exe", "-c", outputPath, "--")
	return append(out, argv...)
}
