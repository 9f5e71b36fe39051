/*
Package status renders what a run did for humans.

	+-------------+
	|  Formatter  |
	+------+------+
	       |
	+------+------+-------------+
	|             |             |
	file lines   progress     summary table

🎯 Purpose:
- One line per moved or removed file, marked in demo mode
- Progress as "current/total (pp.pp%)" against every candidate in the unit
- A summary table of seen / eligible / attempted / succeeded

The structured audit trail is zerolog's job; this package only shapes text.
*/
package status
