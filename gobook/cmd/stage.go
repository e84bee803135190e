package cmd

import (
	"emperror.dev/emperror"
	"fmt"
	"github.com/ocfl-archive/gobook/pkg/registry"
	"github.com/spf13/cobra"
	"log"
	"os"
)

var stageCmd = &cobra.Command{
	Use:     "stage [file...]",
	Aliases: []string{"add"},
	Short:   "stages files into a new container tree",
	Long: `Creates a staging tree, copies all files into the subfolder matching their
extension and writes the package manifest. Markup files are put into the
reading order in command line order.`,
	Example: "gobook stage --keep-staging --title 'My Book' --cover ./img/cover.jpg ./text/ch1.html ./text/ch2.html ./css/book.css",
	Args:    cobra.MinimumNArgs(1),
	Run:     doStage,
}

func initStage() {
	stageCmd.Flags().Bool("keep-staging", false, "keep the staging tree after the command has finished")
	stageCmd.Flags().String("title", "", "title of the book")
	stageCmd.Flags().String("cover", "", "cover image, added if not part of the file list")
	stageCmd.Flags().String("manifest", "", "file which replaces the generated content.opf")
	stageCmd.Flags().String("nav", "", "file which replaces the generated toc.ncx")
	stageCmd.Flags().String("stat-info", "", "comma separated list of sections to show after staging [kinds,files,digests,spine,orphans]")
}

func doStageConf(cmd *cobra.Command) {
	doRegistryConf(cmd)
	if cmd.Flags().Changed("keep-staging") {
		conf.KeepStaging = getFlagBool(cmd, "keep-staging")
	}
	if str := getFlagString(cmd, "title"); str != "" {
		conf.Stage.Title = str
	}
	if str := getFlagString(cmd, "cover"); str != "" {
		conf.Stage.Cover = str
	}
	if str := getFlagString(cmd, "manifest"); str != "" {
		conf.Stage.Manifest = str
	}
	if str := getFlagString(cmd, "nav"); str != "" {
		conf.Stage.Nav = str
	}
	if str := getFlagString(cmd, "stat-info"); str != "" {
		conf.Stat.Info = splitInfo(str)
	}
}

func doStage(cmd *cobra.Command, args []string) {
	doStageConf(cmd)
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

	if err := stageFiles(reg, conf.Stage, args, logger); err != nil {
		logger.Error().Stack().Err(err).Msg("cannot stage files")
		return
	}

	if conf.KeepStaging {
		fmt.Printf("staging tree: %s\n\n", reg.StagingRoot())
	}
	if err := writeReport(os.Stdout, reg, conf.Stat.Info); err != nil {
		logger.Error().Stack().Err(err).Msg("cannot write report")
	}
}
