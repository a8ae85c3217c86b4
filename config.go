// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrutil/v4"
	flags "github.com/jessevdk/go-flags"
	"github.com/kabletop/packd/digest"
	"github.com/kabletop/packd/internal/version"
	"github.com/kabletop/packd/ledger"
	"github.com/kabletop/packd/sampleconfig"
)

const (
	defaultConfigFilename = "packd.conf"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "packd.log"
	defaultLogLevel       = "info"
	defaultLogSize        = 10 * 1024
	defaultCacheSize      = 1024
)

var (
	defaultHomeDir    = dcrutil.AppDataDir("packd", false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(defaultHomeDir, defaultLogDirname)
)

// config defines the configuration options for packd.
//
// See loadConfig for details on the configuration load process.
type config struct {
	// General application behavior.
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	HomeDir     string `short:"A" long:"appdata" description:"Path to application home directory" env:"PACKD_APPDATA"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file" env:"PACKD_CONFIG_FILE"`

	// Logging.
	LogDir        string `long:"logdir" description:"Directory to log output" env:"PACKD_LOGDIR"`
	NoFileLogging bool   `long:"nofilelogging" description:"Disable file logging" env:"PACKD_NOFILELOGGING"`
	LogSize       int64  `long:"logsize" description:"Maximum size in KiB of a log file before it is rotated"`
	DebugLevel    string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems" env:"PACKD_DEBUGLEVEL"`

	// Verification.
	Hash          string `long:"hash" description:"Hash provider used for script identities and lottery draws {blake2b, blake256, blake3}" env:"PACKD_HASH"`
	PaymentCode   string `long:"paymentcode" description:"Code hash of the payment type script" env:"PACKD_PAYMENTCODE"`
	WalletCode    string `long:"walletcode" description:"Code hash of the wallet lock script" env:"PACKD_WALLETCODE"`
	InventoryCode string `long:"inventorycode" description:"Code hash of the inventory type script" env:"PACKD_INVENTORYCODE"`
	CacheSize     uint32 `long:"cachesize" description:"Maximum number of script verdicts to remember"`

	// The following fields are derived from the above fields by loadConfig.
	hashFn digest.Func
	codes  map[chainhash.Hash]scriptKind
}

// errSuppressUsage signifies that an error that happened during the initial
// configuration phase should suppress the usage output since it was not caused
// by the user.
type errSuppressUsage string

// Error implements the error interface.
func (e errSuppressUsage) Error() string {
	return string(e)
}

// cleanAndExpandPath expands environment variables and leading ~ in the passed
// path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Nothing to do when no path is given.
	if path == "" {
		return path
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows cmd.exe-style
	// %VARIABLE%, but the variables can still be expanded via POSIX-style
	// $VARIABLE.
	path = os.ExpandEnv(path)
	if !strings.HasPrefix(path, "~") {
		return filepath.Clean(path)
	}

	// Expand initial ~ to the current user's home directory, or ~otheruser
	// to otheruser's home directory.  On Windows, both forward and backward
	// slashes can be used.
	path = path[1:]
	var pathSeparators string
	if runtime.GOOS == "windows" {
		pathSeparators = string(os.PathSeparator) + "/"
	} else {
		pathSeparators = string(os.PathSeparator)
	}

	userName := ""
	if i := strings.IndexAny(path, pathSeparators); i != -1 {
		userName = path[:i]
		path = path[i:]
	}

	homeDir := ""
	var u *user.User
	var err error
	if userName == "" {
		u, err = user.Current()
	} else {
		u, err = user.Lookup(userName)
	}
	if err == nil {
		homeDir = u.HomeDir
	}
	// Fallback to CWD if user lookup fails or user has no home directory.
	if homeDir == "" {
		homeDir = "."
	}

	return filepath.Join(homeDir, path)
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// createDefaultConfigFile creates a config file at the provided path using the
// commented sample config.
func createDefaultConfigFile(destPath string) error {
	// Create the destination directory if it does not exist.
	err := os.MkdirAll(filepath.Dir(destPath), 0700)
	if err != nil {
		return err
	}

	return os.WriteFile(destPath, []byte(sampleconfig.Packd()), 0600)
}

// parseCodes decodes the configured script code hashes.  Unset codes are
// ignored and the same code may not identify more than one script.
func parseCodes(cfg *config) (map[chainhash.Hash]scriptKind, error) {
	codes := make(map[chainhash.Hash]scriptKind, 3)
	entries := []struct {
		option string
		value  string
		kind   scriptKind
	}{
		{"paymentcode", cfg.PaymentCode, scriptPayment},
		{"walletcode", cfg.WalletCode, scriptWallet},
		{"inventorycode", cfg.InventoryCode, scriptInventory},
	}
	for _, entry := range entries {
		if entry.value == "" {
			continue
		}
		code, err := ledger.ParseHash(entry.value)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", entry.option, err)
		}
		if other, ok := codes[code]; ok {
			return nil, fmt.Errorf("--%s %s is already configured as "+
				"the %s code", entry.option, entry.value, other)
		}
		codes[code] = entry.kind
	}
	if len(codes) == 0 {
		return nil, errors.New("at least one of --paymentcode, " +
			"--walletcode, or --inventorycode must be set")
	}
	return codes, nil
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in packd functioning properly without any config settings
// while still allowing the user to override settings with config files and
// command line options.  Command line options always take precedence.  The
// returned slice holds the remaining positional arguments, which are the
// snapshot files to verify.
func loadConfig(appName string, args []string) (*config, []string, error) {
	// Default config.
	cfg := config{
		HomeDir:    defaultHomeDir,
		ConfigFile: defaultConfigFile,
		LogDir:     defaultLogDir,
		LogSize:    defaultLogSize,
		DebugLevel: defaultLogLevel,
		Hash:       digest.Default,
		CacheSize:  defaultCacheSize,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.  Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
	}

	// Show the version and exit if the version flag was specified.
	if preCfg.ShowVersion {
		fmt.Printf("%s version %s (Go version %s %s/%s)\n", appName,
			version.String(), runtime.Version(), runtime.GOOS,
			runtime.GOARCH)
		os.Exit(0)
	}

	// Update the home directory if specified.  Since the home directory is
	// updated, other variables need to be updated to reflect the new
	// changes.
	if preCfg.HomeDir != "" {
		cfg.HomeDir = cleanAndExpandPath(preCfg.HomeDir)
		if preCfg.ConfigFile == defaultConfigFile {
			cfg.ConfigFile = filepath.Join(cfg.HomeDir,
				defaultConfigFilename)
		} else {
			cfg.ConfigFile = cleanAndExpandPath(preCfg.ConfigFile)
		}
		if preCfg.LogDir == defaultLogDir {
			cfg.LogDir = filepath.Join(cfg.HomeDir, defaultLogDirname)
		}
	} else {
		cfg.ConfigFile = cleanAndExpandPath(preCfg.ConfigFile)
	}

	// Create a default config file when one does not exist and the user
	// did not specify an override.
	if preCfg.ConfigFile == defaultConfigFile && !fileExists(cfg.ConfigFile) {
		err := createDefaultConfigFile(cfg.ConfigFile)
		if err != nil {
			str := fmt.Sprintf("failed to create default config "+
				"file: %v", err)
			return nil, nil, errSuppressUsage(str)
		}
	}

	// Load additional config from file.
	parser := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(cfg.ConfigFile)
	if err != nil {
		var e *os.PathError
		if !errors.As(err, &e) {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %v\n", err)
			return nil, nil, err
		}
		str := fmt.Sprintf("failed to read config file: %v", err)
		return nil, nil, errSuppressUsage(str)
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", supportedSubsystems())
		os.Exit(0)
	}

	// Initialize log rotation.  After the log rotation has been initialized,
	// the logger variables may be used.
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	if !cfg.NoFileLogging {
		if cfg.LogSize <= 0 {
			return nil, nil, fmt.Errorf("--logsize must be positive, "+
				"got %d", cfg.LogSize)
		}
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		if err := initLogRotator(logFile, cfg.LogSize); err != nil {
			return nil, nil, errSuppressUsage(err.Error())
		}
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return nil, nil, err
	}

	// Resolve the hash provider.
	cfg.hashFn, err = digest.ByName(cfg.Hash)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --hash: %w", err)
	}

	// The verdict cache must be able to hold at least one entry.
	if cfg.CacheSize == 0 {
		return nil, nil, errors.New("--cachesize must be positive")
	}

	cfg.codes, err = parseCodes(&cfg)
	if err != nil {
		return nil, nil, err
	}

	return &cfg, remainingArgs, nil
}
