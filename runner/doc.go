// Package runner collects startup samples by invoking the profiled program
// repeatedly.
//
// Each run executes
//
//	CMD... --startuptime <log> -c qa!
//
// with a log file of its own, then parses the log with package trace. A run
// whose program exits with a non-zero status is retried after a delay, up to
// a configured number of times; when retries are exhausted the whole session
// fails with the program's stderr attached. A run that succeeds without
// writing its log is skipped with a warning.
//
// Runs may execute concurrently ([Config.Jobs]). Samples are always added to
// the store in run order.
package runner
