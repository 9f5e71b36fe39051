/*
Package operation runs archive and purge jobs.

	+-----------+     +------------+     +------------+
	|  Scanner  | --> | Classifier | --> |  Executor  |
	| (units)   |     | + Window   |     | (Applier)  |
	+-----------+     +------------+     +------------+

🎯 Purpose:
- Validate a Job before anything on disk changes
- Walk each unit (immediate subdirectory of the source) one at a time
- Move eligible files into Destination/<unit>/<yyyy-MM-dd>, or remove them

🔄 Flow:
1. Parse date formats, check the window, check roots
2. Scan units, classify files by the date in their name
3. Keep files older than the retention threshold (and not older than max days)
4. Act on groups oldest first, files in path order
5. Log the summary, also when the run fails

⚡ Demo mode:
The executor never branches on demo. It talks to an Applier; the demo
applier logs what it would do and reports success, so counts and paths are
the same as a live run.

🚦 Exit codes:
ExitCode maps errors to 0 (ok), 1 (missing root / invalid job),
2 (bad date format) and 10 (I/O failure mid-run).

🔍 Example:

	runner := operation.NewRunner(operation.Options{Fs: afero.NewOsFs()})
	job := operation.DefaultJob()
	job.Source, job.Destination = "/srv/cams", "/mnt/archive"
	stats, err := runner.Run(ctx, job)
*/
package operation
