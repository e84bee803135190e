package cmd

import (
	"emperror.dev/emperror"
	"github.com/ocfl-archive/gobook/config"
	"github.com/ocfl-archive/gobook/pkg/registry"
	"github.com/spf13/cobra"
	"log"
	"os"
	"strings"
)

var statCmd = &cobra.Command{
	Use:     "stat [file...]",
	Aliases: []string{"info"},
	Short:   "statistics of the files as they would be staged",
	Long: `Stages the files into a temporary tree which is removed afterwards and
shows where each file ends up, its media type, size and digest.`,
	Example: "gobook stat --stat-info kinds,digests ./text/*.html ./img/*.png",
	Args:    cobra.MinimumNArgs(1),
	Run:     doStat,
}

func initStat() {
	statCmd.Flags().String("stat-info", "", "comma separated list of sections to show [kinds,files,digests,spine,orphans]")
}

func splitInfo(str string) []string {
	infos := []string{}
	for _, s := range strings.Split(str, ",") {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			infos = append(infos, s)
		}
	}
	return infos
}

func doStatConf(cmd *cobra.Command) {
	doRegistryConf(cmd)
	if str := getFlagString(cmd, "stat-info"); str != "" {
		conf.Stat.Info = splitInfo(str)
	}
	conf.KeepStaging = false
}

func doStat(cmd *cobra.Command, args []string) {
	doStatConf(cmd)
	if err := conf.Validate(); err != nil {
		emperror.Panic(cmd.Help())
		cobra.CheckErr(err)
		return
	}

	logger, closeLogger, err := createLogger(conf)
	if err != nil {
		log.Fatalf("cannot create logger: %v", err)
	}
	defer closeLogger()

	t := startTimer()
	defer func() { logger.Info().Msgf("Duration: %s", t.String()) }()

	reg, err := registry.New(registryOptions(conf, logger))
	if err != nil {
		logger.Error().Stack().Err(err).Msg("cannot create registry")
		return
	}
	defer func() {
		if err := reg.Close(); err != nil {
			logger.Error().Stack().Err(err).Msg("cannot close registry")
		}
	}()

	if err := stageFiles(reg, &config.StageConfig{Cover: conf.Stage.Cover}, args, logger); err != nil {
		logger.Error().Stack().Err(err).Msg("cannot stage files")
		return
	}
	if err := writeReport(os.Stdout, reg, conf.Stat.Info); err != nil {
		logger.Error().Stack().Err(err).Msg("cannot write report")
	}
}
