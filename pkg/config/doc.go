/*
Package config loads archive and purge jobs from files.

	            +-------------+
	            |   Config    |
	            |   (Jobs)    |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   HCL    | |   YAML   | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Pick a parser by file extension
- Decode one or more jobs
- Check names, modes, sources and schedules
- Build operation.Job values with defaults filled in

Date formats are left alone here: they are validated by the runner so that a
bad format keeps its dedicated exit code.

🔍 Example (HCL):

	job "cameras" {
	  source         = "/srv/cams"
	  destination    = "/mnt/archive"
	  extensions     = "\\.mp4|\\.avi"
	  retention_days = 30
	  max_days       = unbounded
	  schedule       = "0 3 * * *"
	}

	job "logs" {
	  mode    = "delete"
	  source  = "/var/log/app"
	  formats = ["yyyy-MM-dd*"]
	}
*/
package config
