package main

import (
	"context"
	"os"
	"strings"

	"github.com/magiconair/properties"
	"github.com/pingcap/errors"
	log "github.com/sirupsen/logrus"

	"ogmdplot/config"
	"ogmdplot/measurement"
	"ogmdplot/trace"
	"ogmdplot/video"
)

// loadConfig layers the YAML file, the property files and the -p values on
// top of the defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewConfig(configFile)
	if err != nil {
		return nil, errors.Annotate(err, "config")
	}

	props := properties.NewProperties()
	if len(propertyFiles) > 0 {
		if props, err = properties.LoadFiles(propertyFiles, properties.UTF8, false); err != nil {
			return nil, errors.Annotate(err, "property files")
		}
	}
	for _, prop := range propertyValues {
		seps := strings.SplitN(prop, "=", 2)
		if len(seps) != 2 {
			return nil, errors.Errorf("bad property: `%s`, expected format `name=value`", prop)
		}
		if _, _, err = props.Set(seps[0], seps[1]); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if encoderName != "" {
		if _, _, err = props.Set(config.VideoEncoder, encoderName); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if err = cfg.ApplyProperties(props); err != nil {
		return nil, errors.Annotate(err, "properties")
	}
	return cfg, nil
}

func run(ctx context.Context, input, output string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, err := trace.ReadFile(input)
	if err != nil {
		return err
	}
	log.Infof("Read %d frames for %d nodes from %s (%s mode)", t.Len(), t.NodeCount, input, t.Mode)

	frames, err := video.NewFrames(t, cfg)
	if err != nil {
		return err
	}

	kind := video.ResolveKind(cfg.Video.Encoder, output)
	enc, err := video.NewEncoder(ctx, kind, output, video.OptionsFromConfig(cfg, frames.FPS()))
	if err != nil {
		return err
	}
	log.Debugf("encoder %s writing to %s", kind, output)

	rec := measurement.NewRecorder()
	if err = video.Render(ctx, frames, enc, rec); err != nil {
		return err
	}
	if info, statErr := os.Stat(output); statErr == nil && !info.IsDir() {
		rec.OutputSize(info.Size())
	}
	log.Infof("Wrote %s", output)

	if printSummary {
		s, err := measurement.Summarize(t, frames.Policy())
		if err != nil {
			return err
		}
		s.Render(os.Stdout)
	}
	if metricsFile != "" {
		if err = rec.WriteTextfile(metricsFile); err != nil {
			return errors.Annotatef(err, "metrics file %s", metricsFile)
		}
	}
	return nil
}
