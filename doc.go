// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
packd verifies transaction snapshots against the package payment, wallet, and
inventory scripts.

Each snapshot is a JSON document describing a transaction along with the cells
it consumes, creates, and references.  packd computes the script groups of the
transaction, runs every group whose code hash is configured, and prints one
verdict line per group.  The exit status is non-zero when any group is
rejected.

The long form of all of the options (except -C) can be specified in a
configuration file that is automatically parsed when packd starts up.  By
default, the configuration file is located at ~/.packd/packd.conf on
POSIX-style operating systems and %LOCALAPPDATA%\packd\packd.conf on Windows.
The -C (--configfile) flag can be used to override this location.

Usage:

	packd [OPTIONS] snapshot.json...

Application Options:

	-V, --version          Display version information and exit
	-A, --appdata=         Path to application home directory
	-C, --configfile=      Path to configuration file
	    --logdir=          Directory to log output
	    --nofilelogging    Disable file logging
	    --logsize=         Maximum size in KiB of a log file before it is
	                       rotated (10240)
	-d, --debuglevel=      Logging level for all subsystems {trace, debug,
	                       info, warn, error, critical} -- You may also
	                       specify <subsystem>=<level>,<subsystem2>=<level>,...
	                       to set the log level for individual subsystems --
	                       Use show to list available subsystems (info)
	    --hash=            Hash provider used for script identities and
	                       lottery draws {blake2b, blake256, blake3} (blake2b)
	    --paymentcode=     Code hash of the payment type script
	    --walletcode=      Code hash of the wallet lock script
	    --inventorycode=   Code hash of the inventory type script
	    --cachesize=       Maximum number of script verdicts to remember (1024)

Help Options:

	-h, --help             Show this help message

Verdicts:

	payment type group <hash>: accept
	wallet lock group <hash>: reject: <reason>
	inventory type group <hash>: accept (cached)
	type group <hash>: skipped (unknown code <code hash>)
*/
package main
