package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/oy3o/arbiter"
	"github.com/oy3o/arbiter/internal/config"
	"github.com/oy3o/arbiter/internal/demo"
	"github.com/oy3o/arbiter/internal/logging"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// commonFlags registers the flags every networked command accepts.
func commonFlags(fs *flag.FlagSet) (path, envFile *string) {
	path = fs.String("config", "", "TOML config file")
	envFile = fs.String("env", ".env", "env file read before the environment")
	return path, envFile
}

func setup(fs *flag.FlagSet, args []string) (config.Config, zerolog.Logger, error) {
	path, envFile := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	log := logging.ConfigureRuntime()
	cfg, err := config.Load(*path, *envFile)
	return cfg, log, err
}

func registry(cfg config.Config, log zerolog.Logger) *arbiter.Registry {
	opts := []arbiter.Option{arbiter.WithLogger(log)}
	if cfg.Arrays {
		opts = append(opts, arbiter.WithArrayMaterialization())
	}
	return arbiter.NewRegistry(opts...)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	cfg, log, err := setup(fs, args)
	if err != nil {
		return err
	}
	reg := registry(cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := new(net.ListenConfig).Listen(ctx, cfg.Network, cfg.Address)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	log.Info().Str("address", ln.Addr().String()).Msg("listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go serveConn(conn, reg, cfg, log)
	}
}

func serveConn(conn net.Conn, reg *arbiter.Registry, cfg config.Config, log zerolog.Logger) {
	defer conn.Close()
	log = log.With().Str("peer", conn.RemoteAddr().String()).Logger()

	a, err := arbiter.New(conn,
		arbiter.WithRegistry(reg),
		arbiter.WithLogger(log),
		arbiter.WithReadBufferSize(cfg.ReadBufferSize))
	if err != nil {
		log.Error().Err(err).Msg("bind connection")
		return
	}
	received := 0
	for {
		obj, err := a.ReceiveAny(
			func() arbiter.Object { return new(demo.Reading) },
			func() arbiter.Object { return new(demo.Telemetry) },
		)
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Info().Int("received", received).Msg("connection closed")
			} else {
				log.Error().Err(err).Stringer("kind", arbiter.KindOf(err)).Msg("receive")
			}
			return
		}
		received++
		switch v := obj.(type) {
		case *demo.Reading:
			log.Info().Stringer("reading", v).Msg("received")
		case *demo.Telemetry:
			log.Info().Str("node", v.Node.String()).Int("samples", len(v.Samples)).Msg("received telemetry")
		}
	}
}

func runSend(args []string) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	count := fs.Int("count", 0, "number of readings, overrides the config")
	cfg, log, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *count > 0 {
		cfg.Count = *count
	}

	conn, err := net.DialTimeout(cfg.Network, cfg.Address, cfg.DialTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	a, err := arbiter.New(conn, arbiter.WithRegistry(registry(cfg, log)), arbiter.WithLogger(log))
	if err != nil {
		return err
	}
	sensor := uuid.New()
	for seq := range cfg.Count {
		if seq > 0 && cfg.Interval > 0 {
			time.Sleep(cfg.Interval)
		}
		if err := a.Send(demo.NewReading(sensor, seq)); err != nil {
			return fmt.Errorf("send reading %d: %w", seq, err)
		}
	}
	log.Info().Int("sent", cfg.Count).Str("sensor", sensor.String()).Msg("done")
	return nil
}

func runDump(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	kind := fs.String("type", "reading", "reading or telemetry")
	seq := fs.Int("seq", 1, "sequence number or sample count")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var obj arbiter.Object
	switch *kind {
	case "reading":
		obj = demo.NewReading(uuid.Nil, *seq)
	case "telemetry":
		obj = demo.NewTelemetry(uuid.Nil, *seq)
	default:
		return fmt.Errorf("unknown type %q", *kind)
	}
	data, err := arbiter.Marshal(obj)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, hex.Dump(data))
	return err
}

func runSchema(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	format := fs.String("format", "json", "json or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	descs := make([]arbiter.Description, 0, 2)
	for _, obj := range demo.Types() {
		s, err := arbiter.Register(obj)
		if err != nil {
			return err
		}
		descs = append(descs, s.Describe())
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(descs)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(descs); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}
