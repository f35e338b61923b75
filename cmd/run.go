package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"heat1d/calculator"
	"heat1d/material"
	"heat1d/model"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

// newRunCmd represents the run command
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one transient analysis and write the recorded temperatures",
		Long: `
Runs the analysis described by the flags or by an input file (-I). Flags given
on the command line override the input file. Example input file:
` + exampleInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			ip, err := buildInput(cmd)
			if err != nil {
				return err
			}
			progress, _ := cmd.Flags().GetBool("progress")
			output, _ := cmd.Flags().GetString("output")
			prof, _ := cmd.Flags().GetString("profile")
			switch prof {
			case "":
			case "cpu":
				defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
			case "mem":
				defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
			default:
				return fmt.Errorf("unknown profile %q, want cpu or mem", prof)
			}

			results, err := runInput(ip, progress)
			if err != nil {
				return err
			}
			return writeResults(output, cmd.OutOrStdout(), results)
		},
	}
	ref := ReferenceInput()
	cmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file with the analysis parameters")
	cmd.Flags().StringP("method", "m", ref.Method, "explicit, implicit or both")
	cmd.Flags().StringP("output", "o", "", "write recorded frames to a .csv or .json file, - for csv on stdout")
	cmd.Flags().Bool("progress", false, "log step, time and the last node temperature at every recorded step")
	cmd.Flags().String("profile", "", "write a cpu or mem profile to the working directory")

	cmd.Flags().String("material", ref.Material, "material preset: "+strings.Join(material.Default().Names(), ", "))
	cmd.Flags().Float64("density", 0, "density kg/m^3, overrides the preset")
	cmd.Flags().Float64("specific-heat", 0, "specific heat J/(kg K), overrides the preset")
	cmd.Flags().Float64("conductivity", 0, "thermal conductivity W/(m K), overrides the preset")
	cmd.Flags().Float64("thickness", ref.Thickness, "plate thickness m")
	cmd.Flags().Float64("temp-low", ref.TempLow, "temperature at x=0, K")
	cmd.Flags().Float64("temp-high", ref.TempHigh, "temperature at x=thickness, K")
	cmd.Flags().IntP("nodes", "n", ref.Nodes, "number of grid nodes including both faces")
	cmd.Flags().Float64("end-time", ref.EndTime, "end time s")
	cmd.Flags().Float64("time-step", ref.TimeStep, "time step s")
	cmd.Flags().Int("output-every", ref.OutputEvery, "record every n-th step, the first and last step are always recorded")
	return cmd
}

// buildInput 参考算例 <- 输入文件 <- 命令行中显式给出的参数
func buildInput(cmd *cobra.Command) (InputParameters, error) {
	ip := ReferenceInput()
	fs := cmd.Flags()
	if file, _ := fs.GetString("inputConditionsFile"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return ip, err
		}
		if err = ip.Parse(data); err != nil {
			return ip, fmt.Errorf("parse %s: %w", file, err)
		}
	}

	strs := map[string]*string{"method": &ip.Method, "material": &ip.Material}
	for name, p := range strs {
		if fs.Changed(name) {
			*p, _ = fs.GetString(name)
		}
	}
	nums := map[string]*float64{
		"density":       &ip.Density,
		"specific-heat": &ip.SpecificHeat,
		"conductivity":  &ip.Conductivity,
		"thickness":     &ip.Thickness,
		"temp-low":      &ip.TempLow,
		"temp-high":     &ip.TempHigh,
		"end-time":      &ip.EndTime,
		"time-step":     &ip.TimeStep,
	}
	for name, p := range nums {
		if fs.Changed(name) {
			*p, _ = fs.GetFloat64(name)
		}
	}
	ints := map[string]*int{"nodes": &ip.Nodes, "output-every": &ip.OutputEvery}
	for name, p := range ints {
		if fs.Changed(name) {
			*p, _ = fs.GetInt(name)
		}
	}
	return ip, nil
}

type runResult struct {
	Method   string
	Summary  calculator.Summary
	Recorder *calculator.Recorder
}

func runInput(ip InputParameters, progress bool) ([]runResult, error) {
	cfg, err := solverConfig()
	if err != nil {
		return nil, err
	}
	w, err := ip.Window(material.Default())
	if err != nil {
		return nil, err
	}
	a := ip.Analysis()

	if strings.EqualFold(strings.TrimSpace(ip.Method), "both") {
		return runBoth(w, a, cfg)
	}
	method, err := calculator.ParseMethod(ip.Method)
	if err != nil {
		return nil, err
	}
	c, err := calculator.NewCalculator(w, a, method, cfg)
	if err != nil {
		return nil, err
	}

	var s calculator.Summary
	if progress {
		s, err = runWithProgress(c)
	} else {
		s, err = c.Run()
	}
	if err != nil {
		return nil, err
	}
	return []runResult{{Method: method.String(), Summary: s, Recorder: c.Recorder()}}, nil
}

func runWithProgress(c *calculator.Calculator) (calculator.Summary, error) {
	hub := calculator.NewCalcHub(0)
	c.SetHub(hub)
	errCh := make(chan error, 1)
	go func() {
		_, err := c.Run()
		if err != nil {
			hub.Finish(c.Summary())
		}
		errCh <- err
	}()

	logProgress(c.Recorder().Frame(0))
	for f := range hub.Frames {
		logProgress(f)
	}
	s := <-hub.Finished
	return s, <-errCh
}

func logProgress(f model.Frame) {
	log.WithFields(log.Fields{
		"step":        f.Step,
		"time":        f.Time,
		"temperature": f.Temperatures[len(f.Temperatures)-1],
	}).Info("progress")
}

// runBoth 同时用两种格式计算，输出最终温度场的最大差
func runBoth(w model.Window, a model.Analysis, cfg calculator.Config) ([]runResult, error) {
	jobs := []calculator.Job{
		{Name: "explicit", Window: w, Analysis: a, Method: calculator.Explicit},
		{Name: "implicit", Window: w, Analysis: a, Method: calculator.Implicit},
	}
	batch := calculator.RunBatch(jobs, cfg)
	results := make([]runResult, 0, len(batch))
	for _, res := range batch {
		if res.Err != nil {
			return nil, fmt.Errorf("%s: %w", res.Job.Name, res.Err)
		}
		results = append(results, runResult{Method: res.Job.Method.String(), Summary: res.Summary, Recorder: res.Recorder})
	}
	log.WithFields(log.Fields{
		"max_difference": floats.Distance(batch[0].Final, batch[1].Final, math.Inf(1)),
		"fourier":        batch[0].Summary.Fourier,
	}).Info("explicit vs implicit")
	return results, nil
}

// writeResults 按扩展名选择格式，"-" 表示 csv 写到标准输出
func writeResults(path string, stdout io.Writer, results []runResult) error {
	if path == "" {
		return nil
	}
	if path == "-" {
		return writeCSV(stdout, results)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = writeJSON(f, results)
	} else {
		err = writeCSV(f, results)
	}
	if err != nil {
		return err
	}
	log.WithField("file", path).Info("结果已保存")
	return f.Close()
}

func writeCSV(w io.Writer, results []runResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"method", "step", "time", "position", "temperature"}); err != nil {
		return err
	}
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, res := range results {
		positions := res.Recorder.Positions()
		for _, frame := range res.Recorder.Frames() {
			for i, temp := range frame.Temperatures {
				record := []string{res.Method, strconv.Itoa(frame.Step), format(frame.Time), format(positions[i]), format(temp)}
				if err := cw.Write(record); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonResult struct {
	Method    string        `json:"method"`
	Steps     int           `json:"steps"`
	Fourier   float64       `json:"fourier"`
	Positions []float64     `json:"positions"`
	Frames    []model.Frame `json:"frames"`
}

func writeJSON(w io.Writer, results []runResult) error {
	out := make([]jsonResult, 0, len(results))
	for _, res := range results {
		out = append(out, jsonResult{
			Method:    res.Method,
			Steps:     res.Summary.Steps,
			Fourier:   res.Summary.Fourier,
			Positions: res.Recorder.Positions(),
			Frames:    res.Recorder.Frames(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
