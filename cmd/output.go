package cmd

import "io"

// Commands write through the root command so tests can capture output with SetOut/SetErr.
func outWriter() io.Writer {
	return rootCmd.OutOrStdout()
}

func errWriter() io.Writer {
	return rootCmd.ErrOrStderr()
}
