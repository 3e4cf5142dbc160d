package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cpusim/cpusim/sim/workload"
)

var (
	generateOut      string
	generateSpecPath string

	genGenerator generatorFlags
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random process set",
	Long:  "Generate a random process set and write it to --out (format by extension), or as JSON to stdout.",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := resolveGeneratorSpec(cmd.Flags(), &genGenerator, generateSpecPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		descriptors, err := workload.GenerateDescriptors(spec)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if generateOut == "" {
			if err := workload.EncodeDescriptors(os.Stdout, workload.FormatJSON, descriptors); err != nil {
				logrus.Fatalf("%v", err)
			}
			return
		}
		if err := workload.WriteDescriptors(generateOut, descriptors); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Wrote %d processes to %s", len(descriptors), generateOut)
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateOut, "out", "", "Output file (.csv, .json, .yaml); stdout when empty")
	generateCmd.Flags().StringVar(&generateSpecPath, "workload-spec", "", "YAML generator spec; flags override its values")
	genGenerator.register(generateCmd.Flags())

	rootCmd.AddCommand(generateCmd)
}
