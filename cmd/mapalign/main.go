// Package main contains a command to register SLAM reconstructions against
// reference floorplans.
package main

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.viam.com/utils"

	"github.com/viam-labs/mapalign/align"
	"github.com/viam-labs/mapalign/floorplan"
	"github.com/viam-labs/mapalign/projection"
	"github.com/viam-labs/mapalign/render"
	"github.com/viam-labs/mapalign/slamio"
)

var logger = golog.NewDevelopmentLogger("mapalign")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	DataDir string `flag:"data,required,usage=dataset root directory"`
	Floor   string `flag:"floor,required,usage=floor name inside the dataset"`
	Flip    bool   `flag:"flip,usage=flip the vertical axis into image coordinates"`
	Refined bool   `flag:"ref,usage=use refined map points"`
	Out     string `flag:"out,usage=output PNG path"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	if len(args) < 2 {
		return errors.New("usage: mapalign (project|fit|overlay) --data <dir> --floor <name> [--flip] [--ref] [--out <png>]")
	}
	command := args[1]
	var argsParsed Arguments
	if err := utils.ParseFlags(append([]string{args[0]}, args[2:]...), &argsParsed); err != nil {
		return err
	}

	dataset := slamio.Dataset{Root: argsParsed.DataDir, Floor: argsParsed.Floor}
	switch command {
	case "project":
		return runProject(dataset, argsParsed, logger)
	case "fit":
		return runFit(dataset, argsParsed, logger)
	case "overlay":
		return runOverlay(dataset, argsParsed, logger)
	default:
		return errors.Errorf("unknown command %q; want project, fit, or overlay", command)
	}
}

func projectDataset(dataset slamio.Dataset, args Arguments, logger golog.Logger) (*projection.ProjectedGeometry, error) {
	recon, err := dataset.Load(args.Refined, logger)
	if err != nil {
		return nil, err
	}
	return projection.Project(recon.Keyframes, recon.MapPoints, projection.Config{FlipVertical: args.Flip})
}

func runProject(dataset slamio.Dataset, args Arguments, logger golog.Logger) error {
	geo, err := projectDataset(dataset, args, logger)
	if err != nil {
		return err
	}
	bounds := projection.BoundsOf(geo.Trajectory, geo.Cloud)
	logger.Infow("projected reconstruction",
		"floor", dataset.Floor,
		"keyframes", len(geo.Trajectory),
		"map_points", len(geo.Cloud),
		"width", bounds.Width(),
		"height", bounds.Height(),
	)
	if args.Out == "" {
		return nil
	}
	if err := render.WritePNG(args.Out, render.Plot(geo.Trajectory, geo.Cloud, render.DefaultStyle())); err != nil {
		return err
	}
	logger.Infow("wrote plot", "path", args.Out)
	return nil
}

func runOverlay(dataset slamio.Dataset, args Arguments, logger golog.Logger) error {
	if args.Out == "" {
		return errors.New("overlay requires --out")
	}
	geo, err := projectDataset(dataset, args, logger)
	if err != nil {
		return err
	}
	plan, err := floorplan.Load(dataset.FloorplanPath())
	if err != nil {
		return err
	}
	img := render.Overlay(plan, geo.Trajectory, geo.Cloud, render.DefaultStyle())
	if err := render.WritePNG(args.Out, img); err != nil {
		return err
	}
	logger.Infow("wrote overlay", "path", args.Out)
	return nil
}

func runFit(dataset slamio.Dataset, args Arguments, logger golog.Logger) error {
	if args.Out == "" {
		return errors.New("fit requires --out")
	}
	geo, err := projectDataset(dataset, args, logger)
	if err != nil {
		return err
	}

	var store align.Store
	if err := store.Load(dataset.CorrespondencesPath()); err != nil {
		return err
	}
	estimator := align.NewEstimator(&store)
	tf, err := estimator.Fit()
	if err != nil {
		return err
	}
	logger.Infow("fit transform",
		"kind", estimator.Kind().String(),
		"pairs", store.Len(),
		"residual_rms", align.ResidualRMS(tf, store.Sources(), store.Targets()),
	)
	if sim, ok := tf.(*align.Similarity); ok {
		logger.Infow("similarity parameters",
			"scale", sim.Scale,
			"theta_rad", sim.Theta,
			"tx", sim.Translation.X,
			"ty", sim.Translation.Y,
		)
	}

	plan, err := floorplan.Load(dataset.FloorplanPath())
	if err != nil {
		return err
	}
	img := render.Overlay(plan,
		align.ApplyAll(tf, geo.Trajectory),
		align.ApplyAll(tf, geo.Cloud),
		render.DefaultStyle())
	if err := render.WritePNG(args.Out, img); err != nil {
		return err
	}
	logger.Infow("wrote aligned overlay", "path", args.Out)
	return nil
}
