package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ItsNotGoodName/x-railview/internal/api"
	"github.com/ItsNotGoodName/x-railview/internal/app"
	"github.com/ItsNotGoodName/x-railview/internal/build"
	"github.com/ItsNotGoodName/x-railview/internal/bus"
	"github.com/ItsNotGoodName/x-railview/internal/config"
	"github.com/ItsNotGoodName/x-railview/internal/icondec"
	"github.com/ItsNotGoodName/x-railview/internal/rail"
	"github.com/ItsNotGoodName/x-railview/internal/replay"
	"github.com/ItsNotGoodName/x-railview/internal/xwm"
	"github.com/ItsNotGoodName/x-railview/pkg/sutureext"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/jezek/xgb"
	"github.com/joho/godotenv"
	"github.com/k0kubun/pp"
	"github.com/phsym/console-slog"
)

type Options struct {
	Debug  bool   `doc:"enable debug"`
	Host   string `doc:"host to listen on"`
	Port   int    `doc:"port to listen on" default:"8080"`
	Config string `doc:"config file" default:".x-railview.yaml"`
	Trace  string `doc:"order trace file" default:"trace.yaml"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			bus.SetContext(ctx)

			if options.Debug {
				bus.Subscribe("main.debug", func(ctx context.Context, event bus.OrderRejected) error {
					slog.Debug(pp.Sprint(event))
					return nil
				})
			}

			configFilePath, err := filepath.Abs(options.Config)
			if err != nil {
				return err
			}

			store, err := config.NewStore(config.NewYAML(configFilePath))
			if err != nil {
				return err
			}

			if err := app.NormalizeConfig(&store); err != nil {
				return err
			}

			cfg, err := store.GetConfig()
			if err != nil {
				return err
			}

			traceFilePath, err := filepath.Abs(options.Trace)
			if err != nil {
				return err
			}

			trace, err := replay.Load(traceFilePath)
			if err != nil {
				return err
			}

			conn, err := xgb.NewConn()
			if err != nil {
				return err
			}
			defer conn.Close()

			surface, err := xwm.NewSurface(conn)
			if err != nil {
				return err
			}

			channel := replay.NewChannel()

			session := rail.NewSession(rail.Options{
				Surface:             surface,
				Channel:             channel,
				IconDecoder:         icondec.Decode,
				NumIconCaches:       cfg.IconCaches,
				NumIconCacheEntries: cfg.IconCacheEntries,
				BuildNumber:         build.BuildNumber,
				Programs:            app.Programs(cfg),
			})

			inboundC := make(chan rail.Inbound)
			msgC := make(chan xwm.Msg)

			super := sutureext.NewSimple("root")
			super.Add(sutureext.NewServiceFunc("xwm.ReceiveEvents", func(ctx context.Context) error {
				return surface.ReceiveEvents(ctx, msgC)
			}))
			super.Add(sutureext.NewServiceFunc("replay.Run", func(ctx context.Context) error {
				return replay.Run(ctx, trace, inboundC)
			}))
			sutureext.Add(super, app.NewSessionLoop(session, inboundC, msgC))
			sutureext.Add(super, api.NewServer(options.Host, options.Port))

			return super.Serve(ctx)
		})
	})

	cli.Root().Version = build.Current.Version

	cli.Run()
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
