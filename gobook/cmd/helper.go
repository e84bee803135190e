package cmd

import (
	"crypto/tls"
	"emperror.dev/errors"
	"github.com/je4/utils/v2/pkg/zLogger"
	"github.com/ocfl-archive/gobook/config"
	"github.com/ocfl-archive/gobook/pkg/registry"
	"github.com/ocfl-archive/gobook/pkg/resource"
	"github.com/ocfl-archive/gobook/pkg/staging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	ublogger "gitlab.switch.ch/ub-unibas/go-ublogger/v2"
	"go.ub.unibas.ch/cloud/certloader/v2/pkg/loader"
	"io"
	"os"
	"path/filepath"
	"time"
)

func startTimer() *timer {
	t := &timer{}
	t.Start()
	return t
}

type timer struct {
	start time.Time
}

func (t *timer) Start() {
	t.start = time.Now()
}

func (t *timer) String() string {
	delta := time.Since(t.start)
	return delta.String()
}

// createLogger builds the console/file/logstash logger of a command. The
// returned closer must be called when the command has finished.
func createLogger(conf *config.GOBOOKConfig) (zLogger.ZLogger, func(), error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot get hostname")
	}

	var closers []io.Closer
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}

	var loggerTLSConfig *tls.Config
	if conf.Log.Stash.TLS != nil {
		var loggerLoader io.Closer
		loggerTLSConfig, loggerLoader, err = loader.CreateClientLoader(conf.Log.Stash.TLS, nil)
		if err != nil {
			return nil, nil, errors.Wrap(err, "cannot create client loader")
		}
		closers = append(closers, loggerLoader)
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	_logger, _logstash, _logfile, err := ublogger.CreateUbMultiLoggerTLS(conf.Log.Level, conf.Log.File,
		ublogger.SetDataset(conf.Log.Stash.Dataset),
		ublogger.SetLogStash(conf.Log.Stash.LogstashHost, conf.Log.Stash.LogstashPort, conf.Log.Stash.Namespace, conf.Log.Stash.LogstashTraceLevel),
		ublogger.SetTLS(conf.Log.Stash.TLS != nil),
		ublogger.SetTLSConfig(loggerTLSConfig),
	)
	if err != nil {
		closeAll()
		return nil, nil, errors.Wrap(err, "cannot create logger")
	}
	if _logstash != nil {
		closers = append(closers, _logstash)
	}
	if _logfile != nil {
		closers = append(closers, _logfile)
	}

	l2 := _logger.With().Timestamp().Str("host", hostname).Logger()
	var logger zLogger.ZLogger = &l2
	return logger, closeAll, nil
}

func registryOptions(conf *config.GOBOOKConfig, logger zLogger.ZLogger) *registry.Options {
	return &registry.Options{
		TempDir:        string(conf.TempDir),
		Digest:         conf.Digest,
		Sanitize:       conf.Sanitize,
		DeleteOnRemove: conf.DeleteOnRemove,
		KeepStaging:    conf.KeepStaging,
		Logger:         logger,
	}
}

// stageFiles adds all files to reg. Markup gets its reading order from the
// position on the command line, the cover file is marked as such. The
// manifest is written at the end unless it was replaced.
func stageFiles(reg *registry.Registry, stageConf *config.StageConfig, files []string, logger zLogger.ZLogger) error {
	if stageConf.Title != "" {
		reg.Manifest().SetTitle(stageConf.Title)
	}
	cover := ""
	if stageConf.Cover != "" {
		cover = filepath.Clean(stageConf.Cover)
		found := false
		for _, file := range files {
			if filepath.Clean(file) == cover {
				found = true
				break
			}
		}
		if !found {
			files = append([]string{stageConf.Cover}, files...)
		}
	}

	for _, file := range files {
		opts := []registry.ContentOption{}
		if resource.KindForExtension(resource.Extension(file)) == resource.KindMarkup {
			opts = append(opts, registry.WithReadingOrder(reg.HighestReadingOrder()+1))
		}
		if cover != "" && filepath.Clean(file) == cover {
			opts = append(opts, registry.WithSemanticInformation(map[string]string{"cover": "true"}))
		}
		res, err := reg.AddContentFile(file, opts...)
		if err != nil {
			return errors.Wrapf(err, "cannot stage '%s'", file)
		}
		logger.Info().Msgf("staged '%s' as '%s'", file, res.Filename())
	}

	if stageConf.Nav != "" {
		if err := reg.AddInfrastructureFile(stageConf.Nav, staging.NavigationFilename); err != nil {
			return errors.Wrapf(err, "cannot replace navigation with '%s'", stageConf.Nav)
		}
	}
	if stageConf.Manifest != "" {
		if err := reg.AddInfrastructureFile(stageConf.Manifest, staging.ManifestFilename); err != nil {
			return errors.Wrapf(err, "cannot replace manifest with '%s'", stageConf.Manifest)
		}
		return nil
	}
	if err := reg.Manifest().Save(reg.Navigation()); err != nil {
		return errors.Wrap(err, "cannot write manifest")
	}
	return nil
}
