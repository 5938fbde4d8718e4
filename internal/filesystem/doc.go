/*
Package filesystem provides filesystem operations that retry NFS stale file handle errors.

Media libraries are frequently mounted over NFS. When the server side changes, open
handles and cached lookups can fail with ESTALE even though the file is still there.
StatWithRetry, OpenWithRetry and ReadDirWithRetry retry those errors with exponential
backoff and return every other error immediately.

Retries are labeled by volume ("media", "database") in Prometheus metrics. Configure
the volume mapping once at startup:

	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
	    "media":    config.MediaDir,
	    "database": config.DatabaseDir,
	}))
*/
package filesystem
