// digitnet-train: single-process trainer for the dense digit classifier
//
// Usage:
//
//	digitnet-train --arch="784 128 10" --data=./mnist --epochs=10 --lr=0.01
//
// Without --data the network trains on synthetic samples shaped by --arch.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"digitnet/dataset"
	"digitnet/nn"
	"digitnet/utils"

	"golang.org/x/exp/rand"
)

var (
	name         = flag.String("name", "digitnet", "Run name recorded in the analysis file")
	arch         = flag.String("arch", "784 128 10", "Layer sizes, input first (space or comma separated)")
	dataRoot     = flag.String("data", "", "Directory with MNIST IDX files (empty: synthetic data)")
	epochs       = flag.Int("epochs", 5, "Number of training epochs")
	learningRate = flag.Float64("lr", 0.01, "Learning rate")
	samples      = flag.Int("samples", 1000, "Maximum number of training samples")
	testSamples  = flag.Int("test-samples", 200, "Maximum number of test samples")
	seed         = flag.Uint64("seed", 42, "Random seed")
	verbose      = flag.Bool("verbose", true, "Verbose output")
	analysisFile = flag.String("analysis", "", "Append a CSV record of the run to this file")
	show         = flag.Int("show", 0, "Print the first N training images as ASCII art")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	architecture, err := utils.ParseArchitecture(*arch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid architecture: %v\n", err)
		os.Exit(1)
	}
	cfg := &utils.Config{
		Name:         *name,
		Architecture: architecture,
		DataRoot:     *dataRoot,
		Epochs:       *epochs,
		LearningRate: *learningRate,
		Samples:      *samples,
		TestSamples:  *testSamples,
		Seed:         *seed,
		AnalysisPath: *analysisFile,
		Show:         *show,
	}
	if err := utils.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                    digitnet Trainer                          ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nConfiguration:\n")
	fmt.Printf("  Architecture:  %s\n", utils.FormatArchitecture(cfg.Architecture))
	fmt.Printf("  Epochs:        %d\n", cfg.Epochs)
	fmt.Printf("  Learning Rate: %.4f\n", cfg.LearningRate)
	fmt.Printf("  Data:          %s\n", dataLabel(cfg.DataRoot))
	fmt.Printf("  Samples:       %d train / %d test\n", cfg.Samples, cfg.TestSamples)
	fmt.Printf("  Seed:          %d\n", cfg.Seed)
	fmt.Println()

	stats := &utils.TimingStats{}
	totalStart := time.Now()

	start := time.Now()
	train, test, err := loadData(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading data: %v\n", err)
		os.Exit(1)
	}
	stats.DataLoadingTime = time.Since(start)
	fmt.Printf("Loaded %d training and %d test samples\n", len(train), len(test))

	for i := 0; i < cfg.Show && i < len(train); i++ {
		fmt.Println(dataset.ASCIIArt(i, dataset.Denormalize(train[i].Input)))
	}

	start = time.Now()
	net, err := nn.NewWithInit(cfg.Architecture, nn.UniformInit(cfg.Seed))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building network: %v\n", err)
		os.Exit(1)
	}
	stats.ModelInitTime = time.Since(start)
	fmt.Printf("\nModel: %d layers\n", net.NumLayers())

	net.SetTimingStats(stats)
	epochStart := time.Now()
	net.OnEpoch(func(epoch int, meanLoss float64) {
		if utils.Verbose {
			fmt.Fprintf(utils.Output, "Epoch %d/%d | Loss: %.6f | Time: %.2fs\n",
				epoch+1, cfg.Epochs, meanLoss, time.Since(epochStart).Seconds())
		}
		epochStart = time.Now()
	})

	fmt.Println("\nStarting training...")
	trainStart := time.Now()
	losses, err := net.Train(train.Inputs(), train.Targets(), cfg.Epochs, cfg.LearningRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error training: %v\n", err)
		os.Exit(1)
	}
	trainDuration := time.Since(trainStart)

	start = time.Now()
	accuracy, err := net.Accuracy(test.Inputs(), test.Targets())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating: %v\n", err)
		os.Exit(1)
	}
	stats.EvaluationTime = time.Since(start)
	stats.TotalTime = time.Since(totalStart)

	fmt.Printf("\nTraining complete! Total time: %.2fs\n", stats.TotalTime.Seconds())
	fmt.Printf("Accuracy %.2f%%\n", accuracy)
	utils.PrintTimingStats(stats, cfg.Epochs*len(train))

	if cfg.AnalysisPath != "" {
		finalLoss := 0.0
		if len(losses) > 0 {
			finalLoss = losses[len(losses)-1]
		}
		err := utils.AppendRunRecord(cfg.AnalysisPath, utils.RunRecord{
			Name:           cfg.Name,
			Architecture:   cfg.Architecture,
			Epochs:         cfg.Epochs,
			LearningRate:   cfg.LearningRate,
			Seed:           cfg.Seed,
			FinalLoss:      finalLoss,
			Accuracy:       accuracy,
			SecondsToTrain: trainDuration.Seconds(),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing analysis: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Run recorded in %s\n", cfg.AnalysisPath)
	}
}

func dataLabel(root string) string {
	if root == "" {
		return "synthetic"
	}
	return root
}

func loadData(cfg *utils.Config) (train, test dataset.Samples, err error) {
	inputDim := cfg.Architecture[0]
	classes := cfg.Architecture[len(cfg.Architecture)-1]

	if cfg.DataRoot == "" {
		src := rand.NewSource(cfg.Seed)
		return dataset.Synthetic(inputDim, classes, cfg.Samples, src),
			dataset.Synthetic(inputDim, classes, cfg.TestSamples, src), nil
	}

	if inputDim != dataset.ImageSize || classes != dataset.NumClasses {
		return nil, nil, fmt.Errorf("MNIST needs input width %d and %d outputs, architecture is %s",
			dataset.ImageSize, dataset.NumClasses, utils.FormatArchitecture(cfg.Architecture))
	}
	train, err = dataset.Load(cfg.DataRoot, true, cfg.Samples)
	if err != nil {
		return nil, nil, fmt.Errorf("training set: %w", err)
	}
	if cfg.TestSamples == 0 {
		return train, nil, nil
	}
	test, err = dataset.Load(cfg.DataRoot, false, cfg.TestSamples)
	if err != nil {
		return nil, nil, fmt.Errorf("test set: %w", err)
	}
	return train, test, nil
}
