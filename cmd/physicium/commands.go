package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Linux0Hat/physicium/internal/export"
	"github.com/Linux0Hat/physicium/internal/metrics"
	"github.com/Linux0Hat/physicium/internal/physics"
	"github.com/Linux0Hat/physicium/internal/scenario"
	"github.com/Linux0Hat/physicium/internal/sim"
	"github.com/Linux0Hat/physicium/internal/storage"
	"github.com/Linux0Hat/physicium/internal/tui"
	"github.com/Linux0Hat/physicium/internal/view"
)

// escapeBound is the distance from the origin past which the stability
// metric counts a frame as escaped.
const escapeBound = 1e6

type runFlags struct {
	scenarioFile string
	duration     float64
	frameMs      float64
	record       bool
	all          bool
	plot         bool
}

type renderFlags struct {
	scenarioFile  string
	out           string
	frames        int
	frameMs       float64
	width, height int
	vectors       bool
	values        bool
	trails        bool
}

func (a *app) liveCommand() *cobra.Command {
	var preset string
	var fps int
	cmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		RunE: func(cmd *cobra.Command, args []string) error {
			if preset != "" {
				a.cfg.Live.Preset = preset
			}
			if fps > 0 {
				a.cfg.Live.FPS = fps
			}
			return a.runLive(cmd, args)
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "", "initial preset (collision, universal, billiards)")
	cmd.Flags().IntVar(&fps, "fps", 0, "frame rate (overrides live.fps)")
	return cmd
}

func (a *app) runLive(cmd *cobra.Command, args []string) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.logger.Info("starting live view", zap.String("preset", a.cfg.Live.Preset), zap.Int("fps", a.cfg.Live.FPS))
	return tui.Run(a.cfg, a.logger)
}

// buildWorld resolves the world to simulate: a scenario file when given,
// else the named preset, else the configured live preset.
func (a *app) buildWorld(args []string, scenarioFile string) (string, *physics.World, scenario.Camera, error) {
	if scenarioFile != "" {
		sc, err := scenario.Load(scenarioFile)
		if err != nil {
			return "", nil, scenario.Camera{}, err
		}
		w, err := sc.World(a.cfg.Physics())
		if err != nil {
			return "", nil, scenario.Camera{}, err
		}
		return sc.Name, w, sc.Camera, nil
	}

	name := a.cfg.Live.Preset
	if len(args) > 0 {
		name = args[0]
	}
	kind, err := scenario.ParsePreset(name)
	if err != nil {
		return "", nil, scenario.Camera{}, err
	}
	w, cam, err := scenario.Build(kind, a.cfg.Physics())
	if err != nil {
		return "", nil, scenario.Camera{}, err
	}
	return kind.String(), w, cam, nil
}

func (a *app) runCommand() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a preset or scenario headless and summarise it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSimulation(cmd, args, f)
		},
	}
	cmd.Flags().StringVar(&f.scenarioFile, "scenario", "", "scenario file (yaml)")
	cmd.Flags().Float64Var(&f.duration, "duration", 10, "simulated seconds")
	cmd.Flags().Float64Var(&f.frameMs, "frame-ms", 16, "wall-clock milliseconds per frame")
	cmd.Flags().BoolVar(&f.record, "record", false, "record the run under the data directory")
	cmd.Flags().BoolVar(&f.all, "all", false, "run every preset concurrently")
	cmd.Flags().BoolVar(&f.plot, "plot", true, "plot kinetic energy")
	cmd.MarkFlagsMutuallyExclusive("all", "record")
	cmd.MarkFlagsMutuallyExclusive("all", "scenario")
	return cmd
}

func (a *app) runSimulation(cmd *cobra.Command, args []string, f *runFlags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	rc := sim.RunConfig{FrameMs: f.frameMs, Duration: f.duration, ValidateState: true}
	if err := rc.Validate(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if f.all {
		results, err := sim.NewEnsemble(scenario.Presets(), a.cfg.Physics(), escapeBound).Run(ctx, rc)
		if err != nil {
			return a.fail("ensemble run failed", err)
		}
		return printSummary(out, results)
	}

	name, world, _, err := a.buildWorld(args, f.scenarioFile)
	if err != nil {
		return err
	}

	s := sim.New(name, world)
	for _, m := range metrics.Standard(escapeBound) {
		s.AddMetric(m)
	}

	var rec *storage.Recorder
	if f.record {
		st := storage.New(a.cfg.DataDir)
		if err := st.Init(); err != nil {
			return a.fail("creating data directory", err)
		}
		rec, err = st.Create(storage.RunMetadata{
			Scenario:   name,
			FrameMs:    f.frameMs,
			Duration:   f.duration,
			Broadphase: a.cfg.Simulation.Broadphase,
		})
		if err != nil {
			return a.fail("creating run", err)
		}
		a.logger.Info("recording run", zap.String("run_id", rec.ID()), zap.String("dir", a.cfg.DataDir))
		s.AddObserver(sim.ObserverFunc(rec.Record))
	}

	a.logger.Info("run started", zap.String("scenario", name), zap.Int("bodies", world.BodyCount()), zap.Float64("duration", f.duration))
	res, runErr := s.Run(ctx, rc)
	if res == nil {
		if rec != nil {
			if err := rec.Discard(); err != nil {
				a.logger.Warn("discarding run", zap.String("run_id", rec.ID()), zap.Error(err))
			}
		}
		return runErr
	}
	res.Err = runErr

	if rec != nil {
		meta, err := rec.Close(res.Metrics)
		if err != nil {
			return a.fail("saving run", err)
		}
		fmt.Fprintf(out, "recorded run %s (%d frames)\n\n", meta.ID, meta.Frames)
	}

	a.logger.Info("run finished",
		zap.String("scenario", name),
		zap.Int("frames", res.Frames),
		zap.Float64("energy_drift", res.Metrics["energy_drift"]),
		zap.Error(runErr))

	if err := printSummary(out, []*sim.Result{res}); err != nil {
		return err
	}
	if f.plot && len(res.Kinetic) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(res.Kinetic,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("kinetic energy ("+name+")")))
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func printSummary(out io.Writer, results []*sim.Result) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tFRAMES\tTIME\tCONTACTS\tENERGY\tE DRIFT\tP DRIFT\tSTABILITY\tSTATUS")
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%d\t%.2fs\t%d\t%.4g\t%.3g%%\t%.3g\t%.2f\t%s\n",
			r.Scenario,
			r.Frames,
			r.Time,
			r.Contacts,
			r.Metrics["energy"],
			r.Metrics["energy_drift"]*100,
			r.Metrics["momentum_drift"],
			r.Metrics["stability"],
			status,
		)
	}
	return w.Flush()
}

func (a *app) renderCommand() *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render [preset]",
		Short: "simulate and write the final frame as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd, args, f)
		},
	}
	cmd.Flags().StringVar(&f.scenarioFile, "scenario", "", "scenario file (yaml)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (default <scenario>.svg)")
	cmd.Flags().IntVar(&f.frames, "frames", 120, "frames to simulate before drawing")
	cmd.Flags().Float64Var(&f.frameMs, "frame-ms", 16, "wall-clock milliseconds per frame")
	cmd.Flags().IntVar(&f.width, "width", 800, "image width")
	cmd.Flags().IntVar(&f.height, "height", 800, "image height")
	cmd.Flags().BoolVar(&f.vectors, "vectors", false, "draw velocity vectors")
	cmd.Flags().BoolVar(&f.values, "values", false, "label velocity magnitudes")
	cmd.Flags().BoolVar(&f.trails, "trails", true, "draw body trajectories")
	return cmd
}

var trailColors = []string{"#00ccff", "#ff00ff", "#ffcc00", "#88ff88", "#ff4444"}

func (a *app) render(cmd *cobra.Command, args []string, f *renderFlags) error {
	if f.frames < 0 {
		return fmt.Errorf("frames must be non-negative, got %d", f.frames)
	}
	name, world, cam, err := a.buildWorld(args, f.scenarioFile)
	if err != nil {
		return err
	}

	vp := view.NewViewport(f.width, f.height)
	if err := vp.SetMeterSize(cam.ScaledMeterSize(f.width, f.height)); err != nil {
		return err
	}

	history := make([][]physics.Vector2, world.BodyCount())
	record := func(s physics.Snapshot) {
		for i, b := range s.Bodies {
			history[i] = append(history[i], b.Position)
		}
	}
	record(world.Snapshot())
	for i := 0; i < f.frames; i++ {
		world.ApplyPhysic(f.frameMs)
		record(world.Snapshot())
	}
	if err := world.Validate(); err != nil {
		return a.fail("world diverged", err)
	}

	snap := world.Snapshot()
	if cam.Follow && len(snap.Bodies) > 0 {
		vp.SetViewCenter(snap.Bodies[0].Position.X, snap.Bodies[0].Position.Y)
	}

	svg := export.NewSVG(f.width, f.height)
	if f.trails {
		color := 0
		for i, b := range snap.Bodies {
			if b.Static {
				continue
			}
			pts := make([]view.Point, len(history[i]))
			for j, p := range history[i] {
				pts[j] = vp.Project(p)
			}
			svg.DrawTrail(pts, trailColors[color%len(trailColors)])
			color++
		}
	}

	r := view.NewRenderer()
	r.MinRadius = a.cfg.View.MinRadius
	r.Draw(snap, vp, svg)
	if f.vectors || f.values {
		r.DrawVectors(snap, vp, svg, a.cfg.View.VectorScale, f.values)
	}

	path := f.out
	if path == "" {
		path = name + ".svg"
	}
	file, err := os.Create(path)
	if err != nil {
		return a.fail("creating output", err)
	}
	defer file.Close()
	if _, err := svg.WriteTo(file); err != nil {
		return a.fail("writing svg", err)
	}

	a.logger.Info("rendered", zap.String("scenario", name), zap.String("path", path), zap.Int("frames", f.frames))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (t=%.2fs)\n", path, snap.Time)
	return nil
}

func (a *app) presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tSTATIC\tGRAVITY\tUNIVERSAL\tDESCRIPTION")
			for _, kind := range scenario.Presets() {
				sc, err := scenario.Preset(kind)
				if err != nil {
					return err
				}
				static := 0
				for _, b := range sc.Bodies {
					if b.Static {
						static++
					}
				}
				g := physics.Vector2{}
				if sc.Gravity != nil {
					g = physics.Vec(sc.Gravity.X, sc.Gravity.Y)
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%t\t%s\n",
					kind, len(sc.Bodies), static, g, sc.UniversalGravitation, sc.Description)
			}
			return w.Flush()
		},
	}
}

func (a *app) scenarioCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "work with scenario files",
	}

	var out string
	exportCmd := &cobra.Command{
		Use:   "export [preset]",
		Short: "write a preset as a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := scenario.ParsePreset(args[0])
			if err != nil {
				return err
			}
			sc, err := scenario.Preset(kind)
			if err != nil {
				return err
			}
			if out == "" {
				data, err := scenario.Marshal(sc)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return err
				}
			}
			if err := scenario.Save(out, sc); err != nil {
				return a.fail("saving scenario", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	cmd.AddCommand(exportCmd)
	return cmd
}

func (a *app) runsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(a.cfg.DataDir)
			runs, err := st.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tFRAMES\tBODIES\tE DRIFT")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.3g%%\n",
					run.ID,
					run.Scenario,
					run.Timestamp.Local().Format("2006-01-02 15:04:05"),
					run.Frames,
					run.Bodies,
					run.Metrics["energy_drift"]*100,
				)
			}
			return w.Flush()
		},
	}
}

func (a *app) plotCommand() *cobra.Command {
	var columns []string
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot columns of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(a.cfg.DataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			series, err := st.LoadSeries(args[0])
			if err != nil {
				return err
			}
			if len(series.Rows) == 0 {
				return fmt.Errorf("no data to plot")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run: %s\n", meta.ID)
			fmt.Fprintf(out, "scenario: %s\n", meta.Scenario)
			fmt.Fprintf(out, "frames: %d\n\n", len(series.Rows))

			for _, col := range columns {
				data := series.Column(col)
				if data == nil {
					return fmt.Errorf("unknown column %q", col)
				}
				fmt.Fprintln(out, asciigraph.Plot(data,
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption(col+" vs frame")))
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&columns, "column", []string{"kinetic"}, "columns to plot (time, kinetic, potential, px, py, x0, vy1, ...)")
	return cmd
}
