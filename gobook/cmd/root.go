package cmd

import (
	"emperror.dev/errors"
	"fmt"
	"github.com/je4/utils/v2/pkg/checksum"
	configutil "github.com/je4/utils/v2/pkg/config"
	"github.com/ocfl-archive/gobook/config"
	"github.com/ocfl-archive/gobook/version"
	"github.com/spf13/cobra"
	"log"
	"os"
)

// all possible flags of all modules go here
var persistentFlagConfigFile string

var persistentFlagLogfile string
var persistentFlagLoglevel string

var conf *config.GOBOOKConfig

var rootCmd = &cobra.Command{
	Use:   "gobook",
	Short: "gobook stages files into the folder tree of an e-book container",
	Long: fmt.Sprintf(`Stages content files into the canonical folder tree of an e-book
container, keeps filenames unique and maintains the package manifest.
https://github.com/ocfl-archive/gobook
Version %s`, version.Info()),
	Version: version.Version,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func getFlagString(cmd *cobra.Command, flag string) string {
	str, err := cmd.Flags().GetString(flag)
	if err != nil {
		_ = cmd.Help()
		cobra.CheckErr(errors.Errorf("cannot get flag %s: %v", flag, err))
	}
	return str
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	b, err := cmd.Flags().GetBool(flag)
	if err != nil {
		_ = cmd.Help()
		cobra.CheckErr(errors.Errorf("cannot get flag %s: %v", flag, err))
	}
	return b
}

func initConfig() {
	data := config.DefaultConfig
	if persistentFlagConfigFile != "" {
		var err error
		if data, err = os.ReadFile(persistentFlagConfigFile); err != nil {
			_ = rootCmd.Help()
			log.Fatalf("error reading config file %s: %v\n", persistentFlagConfigFile, err)
		}
	}
	var err error
	if conf, err = config.LoadGOBOOKConfig(string(data)); err != nil {
		_ = rootCmd.Help()
		log.Fatalf("error loading config file %s: %v\n", persistentFlagConfigFile, err)
	}

	// overwrite config file with command line data
	if persistentFlagLogfile != "" {
		conf.Log.File = persistentFlagLogfile
	}
	if persistentFlagLoglevel != "" {
		conf.Log.Level = persistentFlagLoglevel
	}
}

// setRegistryFlags adds the flags which control the staging registry
func setRegistryFlags(commands ...*cobra.Command) {
	for _, cmd := range commands {
		cmd.Flags().String("temp-dir", "", "parent folder of the staging tree")
		cmd.Flags().String("digest", "", "digest of staged files (sha512|sha256|sha1|md5|blake2b256|...), 'none' to disable")
		cmd.Flags().Bool("sanitize", false, "slugify incoming filenames")
	}
}

func doRegistryConf(cmd *cobra.Command) {
	if str := getFlagString(cmd, "temp-dir"); str != "" {
		conf.TempDir = configutil.EnvString(str)
	}
	if str := getFlagString(cmd, "digest"); str != "" {
		if str == "none" {
			str = ""
		}
		conf.Digest = checksum.DigestAlgorithm(str)
	}
	if cmd.Flags().Changed("sanitize") {
		conf.Sanitize = getFlagBool(cmd, "sanitize")
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&persistentFlagConfigFile, "config", "", "config file (default is embedded gobook.toml)")
	rootCmd.PersistentFlags().StringVar(&persistentFlagLogfile, "log-file", "", "log output file (default is console)")
	rootCmd.PersistentFlags().StringVar(&persistentFlagLoglevel, "log-level", "", "log level (CRITICAL|ERROR|WARNING|NOTICE|INFO|DEBUG)")

	initStage()
	initStat()

	setRegistryFlags(stageCmd, statCmd)
	rootCmd.AddCommand(stageCmd, statCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
