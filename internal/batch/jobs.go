package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"cover-matte/internal/config"
	"cover-matte/internal/imageio"
	"cover-matte/internal/matte"
	"cover-matte/internal/postprocess"
	"cover-matte/internal/preset"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// RemovePipeline builds the whole-image remover: border-band sampling and
// percent tolerance, followed by denoise and box-blur feathering.
func RemovePipeline(mc config.MatteConfig) (*matte.Pipeline, error) {
	mode, err := matte.ParseMode(mc.Mode)
	if err != nil {
		return nil, err
	}
	est := matte.NewEstimator(matte.SampleBands)
	est.MaxDispersion = mc.MaxDispersion
	if mc.BgColor != "" {
		c, err := matte.ParseRGB(mc.BgColor)
		if err != nil {
			return nil, err
		}
		est.Fixed = &c
	}
	return &matte.Pipeline{
		Estimator:     est,
		Classifier:    matte.Percent{Tolerance: matte.PercentTolerance(mc.Tolerance), Mode: mode},
		MinArea:       mc.MinArea,
		FeatherPasses: mc.Feather,
	}, nil
}

// CoverPipeline builds the per-region matte used on pendant presets:
// border-line sampling and raw distance tolerance with a linear band.
func CoverPipeline(cc config.CoverConfig, maxDispersion float64) *matte.Pipeline {
	est := matte.NewEstimator(matte.SampleLines)
	est.MaxDispersion = maxDispersion
	return &matte.Pipeline{
		Estimator:     est,
		Classifier:    matte.RawDistance{Tolerance: cc.BgTolerance, Band: cc.BgFeather},
		MinArea:       cc.MinArea,
		FeatherPasses: cc.FeatherPasses,
	}
}

// RemoveOutputPath is <base>_transparent<ext> next to the input, or inside
// dir when dir is set.
func RemoveOutputPath(input, dir string, f imageio.Format) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+"_transparent"+f.Ext())
}

// RemoveTarget picks the output of a single-file run: the explicit path
// when given, otherwise RemoveOutputPath inside dir.
func RemoveTarget(input, explicit, dir string, f imageio.Format) string {
	if explicit != "" {
		return explicit
	}
	return RemoveOutputPath(input, dir, f)
}

// CoverOutputPath is <base>_<preset>.png inside dir (the input's directory
// when empty).
func CoverOutputPath(input, dir, name string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.png", base, name))
}

// RemoveBackground mattes one image file. When no uniform background can
// be found the image is written unchanged.
func RemoveBackground(input, output string, p *matte.Pipeline, f imageio.Format, quality int, log *zap.Logger) Result {
	res := Result{Task: input, Input: input, Output: output, Format: f.String()}

	img, info, err := imageio.Load(input)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	log.Debug("loaded", zap.String("input", input), zap.String("format", info.Format),
		zap.Int("width", info.Width), zap.Int("height", info.Height))

	buf := matte.FromImage(img)
	rep := p.Run(buf, []matte.Region{matte.FullImage(buf.Height)})
	res.Regions = rep.Processed()
	res.Width, res.Height = buf.Width, buf.Height

	if len(rep.Regions) > 0 {
		est := rep.Regions[0].Estimate
		res.Background = describe(est)
	}
	if rep.Processed() == 0 {
		log.Warn("background not detected, saving unchanged", zap.String("input", input))
	} else {
		log.Info("background detected", zap.String("input", input), zap.String("background", res.Background))
	}

	n, err := imageio.Save(output, buf.NRGBA(), f, quality)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Bytes = n
	res.Success = true
	log.Info("saved", zap.String("output", output), zap.String("size", humanize.IBytes(uint64(n))))
	return res
}

// CutPreset crops and resizes one image to a preset, clips transparent
// presets to their editable regions, optionally mattes them, and compresses
// the result toward the preset's byte limit.
func CutPreset(input, output string, p preset.Preset, pipe *matte.Pipeline, log *zap.Logger) Result {
	res := Result{Task: p.Name, Input: input, Output: output}

	img, info, err := imageio.Load(input)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	crop := postprocess.CenterCrop(img.Bounds(), p.Width, p.Height)
	img = postprocess.Fill(img, p.Width, p.Height)
	log.Info("cropped",
		zap.String("preset", p.Name),
		zap.String("source", fmt.Sprintf("%dx%d", info.Width, info.Height)),
		zap.String("crop", fmt.Sprintf("%dx%d", crop.Dx(), crop.Dy())),
		zap.String("target", fmt.Sprintf("%dx%d", p.Width, p.Height)))

	if p.Transparent {
		p.ClipToRegions(img)
	}

	if p.Transparent && pipe != nil {
		buf := matte.FromImage(img)
		rep := pipe.Run(buf, p.Regions())
		res.Regions = rep.Processed()
		var bgs []string
		for _, rr := range rep.Regions {
			if rr.Skipped {
				log.Debug("region skipped", zap.String("preset", p.Name),
					zap.Int("top", rr.Region.Top), zap.Int("height", rr.Region.Height),
					zap.Int("samples", rr.Estimate.Samples), zap.Float64("dispersion", rr.Estimate.Dispersion))
				continue
			}
			bgs = append(bgs, describe(rr.Estimate))
		}
		res.Background = strings.Join(bgs, "; ")
		img = buf.NRGBA()
	}

	c, err := imageio.CompressToLimit(img, p.SizeLimit(), p.Transparent)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if c.Format == imageio.JPEG {
		output = imageio.ReplaceExt(output, imageio.JPEG)
		res.Output = output
	}
	if err := imageio.WriteFile(output, c.Data); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Format = c.Format.String()
	res.Bytes = int64(len(c.Data))
	res.Width, res.Height = c.Width, c.Height
	res.OverLimit = !c.Fits(p.SizeLimit())
	res.Success = true

	fields := []zap.Field{
		zap.String("preset", p.Name),
		zap.String("output", output),
		zap.String("size", humanize.IBytes(uint64(res.Bytes))),
		zap.String("limit", humanize.IBytes(uint64(p.SizeLimit()))),
		zap.String("encoding", c.Note),
	}
	if c.Quality > 0 {
		fields = append(fields, zap.Int("quality", c.Quality))
	}
	if c.Colors > 0 {
		fields = append(fields, zap.Int("colors", c.Colors))
	}
	if res.OverLimit {
		log.Warn("still over size limit, check the source image", fields...)
	} else {
		log.Info("saved", fields...)
	}
	return res
}

func describe(est matte.Estimate) string {
	if !est.Valid {
		return fmt.Sprintf("none (%d samples, dispersion %.1f)", est.Samples, est.Dispersion)
	}
	return fmt.Sprintf("%s (%s)", est.RGB, est.Kind)
}
