package cmd

import (
	"fmt"
	"io"

	"github.com/ghodss/yaml"

	"heat1d/material"
	"heat1d/model"
)

const exampleInput = `
########################################
Title: "Reference window"
Material: glass # properties below override the preset
Method: implicit
Thickness: 0.003
TempLow: 293.15
TempHigh: 263.15
Nodes: 16
EndTime: 0.5
TimeStep: 0.001
OutputEvery: 100
########################################
`

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title        string  `json:"Title"`
	Material     string  `json:"Material"`
	Method       string  `json:"Method"`
	Density      float64 `json:"Density"`
	SpecificHeat float64 `json:"SpecificHeat"`
	Conductivity float64 `json:"Conductivity"`
	Thickness    float64 `json:"Thickness"`
	TempLow      float64 `json:"TempLow"`
	TempHigh     float64 `json:"TempHigh"`
	Nodes        int     `json:"Nodes"`
	EndTime      float64 `json:"EndTime"`
	TimeStep     float64 `json:"TimeStep"`
	OutputEvery  int     `json:"OutputEvery"`
}

// ReferenceInput 对应参考算例
func ReferenceInput() InputParameters {
	return InputParameters{
		Title:       "Reference window",
		Material:    "glass",
		Method:      "explicit",
		Thickness:   model.RefThickness,
		TempLow:     model.RefTempLow,
		TempHigh:    model.RefTempHigh,
		Nodes:       model.RefNodes,
		EndTime:     model.RefEndTime,
		TimeStep:    model.RefTimeStep,
		OutputEvery: model.RefOutputEvery,
	}
}

// Parse overlays the keys present in data onto ip.
func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Window 先取材料预设，再用非零的物性参数覆盖
func (ip *InputParameters) Window(catalog *material.Catalog) (model.Window, error) {
	var m material.Material
	if ip.Material != "" {
		var err error
		if m, err = catalog.Lookup(ip.Material); err != nil {
			return model.Window{}, err
		}
	}
	if ip.Density != 0 {
		m.Density = ip.Density
	}
	if ip.SpecificHeat != 0 {
		m.SpecificHeat = ip.SpecificHeat
	}
	if ip.Conductivity != 0 {
		m.Conductivity = ip.Conductivity
	}
	return m.Window(ip.Thickness, ip.TempLow, ip.TempHigh), nil
}

func (ip *InputParameters) Analysis() model.Analysis {
	return model.Analysis{
		Nodes:       ip.Nodes,
		EndTime:     ip.EndTime,
		TimeStep:    ip.TimeStep,
		OutputEvery: ip.OutputEvery,
	}
}

func (ip *InputParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%s]\t\t\t= Material\n", ip.Material)
	fmt.Fprintf(w, "[%s]\t\t= Method\n", ip.Method)
	fmt.Fprintf(w, "%8.5f\t\t= Thickness\n", ip.Thickness)
	fmt.Fprintf(w, "%8.3f/%8.3f\t= TempLow/TempHigh\n", ip.TempLow, ip.TempHigh)
	fmt.Fprintf(w, "[%d]\t\t\t= Nodes\n", ip.Nodes)
	fmt.Fprintf(w, "%8.5f\t\t= EndTime\n", ip.EndTime)
	fmt.Fprintf(w, "%8.5f\t\t= TimeStep\n", ip.TimeStep)
}
