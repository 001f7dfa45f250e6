// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultLogFile is where runeaddr writes its log when -logfile is not
// given. Unprivileged users fall back to the user cache directory.
func DefaultLogFile() string {
	if os.Geteuid() == 0 {
		switch runtime.GOOS {
		case "linux", "freebsd", "openbsd":
			return "/var/log/runeaddr/runeaddr.log"
		case "darwin":
			return "/Library/Logs/runeaddr/runeaddr.log"
		}
	}
	return UserLogFile()
}

func UserLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "runeaddr", "runeaddr.log")
}

// DefaultConfigFile is the optional plain-format config read by the CLI.
func DefaultConfigFile() string {
	return "/etc/runeaddr/runeaddr.conf"
}
