package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prism/internal/codec"
	"prism/internal/format"
	"prism/internal/ndimage"
	"prism/internal/progress"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var resize string
	var grayscale bool

	cmd := &cobra.Command{
		Use:   "convert SRC DST",
		Short: "Convert an image between formats",
		Long: "Convert reads SRC with the first format that claims it, applies the\n" +
			"requested transforms, and writes the result to DST in the format implied\n" +
			"by its extension. Multi-frame sources keep their frames when the target\n" +
			"format supports them; otherwise only the first frame is written.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]

			width, height, err := parseResize(resize)
			if err != nil {
				return err
			}

			reg := codec.Default()
			srcFormat, err := reg.SearchRead(src, 0)
			if err != nil {
				return err
			}
			dstFormat, err := reg.SearchWrite(dst, 0)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			codec.SetJPEGQuality(cfg.Convert.JPEGQuality)

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			reader, err := srcFormat.NewReader(src)
			if err != nil {
				return fmt.Errorf("open %s: %w", src, err)
			}
			defer reader.Close()

			frames, err := reader.ReadAll()
			if err != nil {
				return fmt.Errorf("decode %s: %w", src, err)
			}
			if len(frames) > 1 && !dstFormat.HasMode(format.ModeMultiImage) {
				logger.Warn("target format is single-image, writing first frame only",
					"format", dstFormat.Name, "frames", len(frames))
				frames = frames[:1]
			}

			ind := progress.New(dst, ctx.progressBackend())
			ind.Start("convert", "frames", float64(len(frames)))

			writer, err := dstFormat.NewWriter(dst)
			if err != nil {
				ind.Fail(err.Error())
				return fmt.Errorf("create %s: %w", dst, err)
			}

			for n, frame := range frames {
				transformed, err := applyTransforms(frame, width, height, grayscale)
				if err != nil {
					ind.Fail(err.Error())
					_ = writer.Close()
					return err
				}
				if err := writer.Write(transformed); err != nil {
					ind.Fail(err.Error())
					_ = writer.Close()
					return fmt.Errorf("encode frame %d: %w", n, err)
				}
				ind.SetProgress(float64(n+1), false)
			}
			if err := writer.Close(); err != nil {
				ind.Fail(err.Error())
				return fmt.Errorf("finish %s: %w", dst, err)
			}

			ind.Finish(fmt.Sprintf("wrote %s (%d frames)", dst, len(frames)))
			return nil
		},
	}

	cmd.Flags().StringVar(&resize, "resize", "", "Target size as WIDTHxHEIGHT")
	cmd.Flags().BoolVar(&grayscale, "grayscale", false, "Convert to grayscale")
	return cmd
}

func applyTransforms(im *ndimage.Image, width, height int, grayscale bool) (*ndimage.Image, error) {
	var err error
	if width > 0 {
		im, err = codec.Resize(im, width, height)
		if err != nil {
			return nil, fmt.Errorf("resize: %w", err)
		}
	}
	if grayscale {
		im, err = codec.Grayscale(im)
		if err != nil {
			return nil, fmt.Errorf("grayscale: %w", err)
		}
	}
	return im, nil
}

func parseResize(value string) (int, int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, 0, nil
	}
	var width, height int
	if _, err := fmt.Sscanf(trimmed, "%dx%d", &width, &height); err != nil {
		return 0, 0, fmt.Errorf("invalid --resize %q (want WIDTHxHEIGHT)", value)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("invalid --resize %q (dimensions must be positive)", value)
	}
	return width, height, nil
}
