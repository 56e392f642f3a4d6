package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"dicomto3d/pkg/config"
	"dicomto3d/pkg/enhanced"
	"dicomto3d/pkg/visualization"
)

// volumeSidecar is the YAML geometry description written next to each
// raw volume dump.
type volumeSidecar struct {
	SourceFile     string     `yaml:"sourceFile"`
	SOPInstanceUID string     `yaml:"sopInstanceUID"`
	Modality       string     `yaml:"modality"`
	DimensionValue int        `yaml:"dimensionValue"`
	Rows           int        `yaml:"rows"`
	Columns        int        `yaml:"columns"`
	Slices         int        `yaml:"slices"`
	SpacingMM      [3]float64 `yaml:"spacingMM"`
	Origin         [3]float64 `yaml:"origin"`
	RowDirection   [3]float64 `yaml:"rowDirection"`
	ColDirection   [3]float64 `yaml:"colDirection"`
	Normal         [3]float64 `yaml:"normal"`
}

func main() {
	inputPath := flag.String("input", "", "Enhanced DICOM file or directory of files")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	outputDir := flag.String("output", "", "Directory for reconstructed volumes")
	workers := flag.Int("workers", 0, "Number of files to process concurrently")
	extractSlices := flag.Bool("extract-slices", false, "Save per-slice JPEG previews for each volume")
	sliceAxis := flag.String("slice-axis", "", "Axis for slice previews (x, y or z)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	writeConfig := flag.String("write-config", "", "Write the default configuration to a file and exit")
	flag.Parse()

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default configuration written to %s\n", *writeConfig)
		return
	}

	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Command line flags win over the config file.
	if *outputDir != "" {
		cfg.Output.Directory = *outputDir
	}
	if *workers > 0 {
		cfg.Processing.NumWorkers = *workers
	}
	if cfg.Processing.NumWorkers < 1 {
		cfg.Processing.NumWorkers = 1
	}
	if *extractSlices {
		cfg.Export.Slices = true
	}
	if *sliceAxis != "" {
		cfg.Export.SliceAxis = *sliceAxis
	}
	if *verbose {
		cfg.Output.Verbose = true
	}

	level := zerolog.InfoLevel
	if cfg.Output.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	files, err := collectInputs(*inputPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to collect input files")
	}
	if len(files) == 0 {
		log.Fatal().Str("input", *inputPath).Msg("no DICOM files found")
	}

	if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
		log.Fatal().Err(err).Msg("failed to create output directory")
	}

	log.Info().
		Int("files", len(files)).
		Int("workers", cfg.Processing.NumWorkers).
		Str("output", cfg.Output.Directory).
		Msg("starting reconstruction")

	startTime := time.Now()

	var g errgroup.Group
	g.SetLimit(cfg.Processing.NumWorkers)
	for _, file := range files {
		file := file
		g.Go(func() error {
			return processFile(log, cfg, file)
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("reconstruction failed")
	}

	log.Info().
		Dur("elapsed", time.Since(startTime)).
		Msg("reconstruction completed")
}

// collectInputs resolves the input path to a list of candidate DICOM
// files. Directories are scanned one level deep for .dcm files.
func collectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".dcm") {
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// processFile parses one enhanced DICOM file and writes every
// reconstructed volume it contains.
func processFile(log zerolog.Logger, cfg *config.Config, path string) error {
	flog := log.With().Str("file", filepath.Base(path)).Logger()

	parser := enhanced.NewParser(
		enhanced.WithLogger(flog),
		enhanced.WithProgress(func(fraction float64) {
			flog.Debug().Float64("fraction", fraction).Msg("parsing")
		}),
	)

	series, err := parser.ParseFile(path)
	if err != nil {
		if enhanced.CodeOf(err) == enhanced.CodeNotEnhancedIOD {
			flog.Warn().Msg("skipping: not an enhanced multi-frame file")
			return nil
		}
		return fmt.Errorf("%s: %w", path, err)
	}

	for _, warning := range series.Warnings {
		flog.Warn().Msg(warning)
	}

	var volumes map[int]*enhanced.Volume
	if cfg.Processing.SplitDimensions {
		volumes, err = parser.ReconstructVolumes(series)
	} else {
		var vol *enhanced.Volume
		vol, err = parser.AssembleVolume(series)
		volumes = map[int]*enhanced.Volume{0: vol}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	keys := make([]int, 0, len(volumes))
	for key := range volumes {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	for _, key := range keys {
		vol := volumes[key]
		name := base
		if len(volumes) > 1 {
			name = fmt.Sprintf("%s_d%03d", base, key)
		}
		if err := writeVolume(cfg, series, vol, key, name); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		flog.Info().
			Str("volume", name).
			Int("slices", vol.SliceCount()).
			Floats64("spacingMM", vol.Spacing[:]).
			Msg("volume written")

		if cfg.Export.Slices {
			viewer := visualization.NewViewer(vol)
			slicesDir := filepath.Join(cfg.Output.Directory, name+"_slices")
			if err := viewer.SaveSliceSequence(cfg.Export.SliceAxis, slicesDir); err != nil {
				return fmt.Errorf("%s: saving slices: %w", path, err)
			}
		}
	}

	return nil
}

// writeVolume dumps the voxel data as little-endian float64 and writes
// the YAML geometry sidecar next to it.
func writeVolume(cfg *config.Config, series *enhanced.SeriesRecord, vol *enhanced.Volume, key int, name string) error {
	rawPath := filepath.Join(cfg.Output.Directory, name+".raw")
	file, err := os.Create(rawPath)
	if err != nil {
		return err
	}
	if err := binary.Write(file, binary.LittleEndian, vol.Data); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	sidecar := volumeSidecar{
		SourceFile:     series.FilePath,
		SOPInstanceUID: series.SOPInstanceUID,
		Modality:       series.Modality,
		DimensionValue: key,
		Rows:           vol.Rows,
		Columns:        vol.Columns,
		Slices:         vol.NumSlices,
		SpacingMM:      vol.Spacing,
		Origin:         [3]float64{vol.Origin.X, vol.Origin.Y, vol.Origin.Z},
		RowDirection:   [3]float64{vol.RowDir.X, vol.RowDir.Y, vol.RowDir.Z},
		ColDirection:   [3]float64{vol.ColDir.X, vol.ColDir.Y, vol.ColDir.Z},
		Normal:         [3]float64{vol.Normal.X, vol.Normal.Y, vol.Normal.Z},
	}
	data, err := yaml.Marshal(&sidecar)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cfg.Output.Directory, name+".yaml"), data, 0644)
}
