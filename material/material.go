package material

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"heat1d/model"
)

// 默认的物性参数表
//
//go:embed materials.json
var defaultCatalog []byte

var ErrUnknownMaterial = errors.New("unknown material")

// 材料的物性参数，不随温度变化
type Material struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Density      float64 `json:"density"`       // 密度 kg/m^3
	SpecificHeat float64 `json:"specific_heat"` // 比热容 J/(kg K)
	Conductivity float64 `json:"conductivity"`  // 导热系数 W/(m K)
}

// Window 组合厚度和边界温度得到计算用的参数
func (m Material) Window(thickness, low, high float64) model.Window {
	return model.Window{
		Density:      m.Density,
		SpecificHeat: m.SpecificHeat,
		Conductivity: m.Conductivity,
		Thickness:    thickness,
		TempLow:      low,
		TempHigh:     high,
	}
}

func (m Material) validate() error {
	if m.Name == "" {
		return errors.New("material without name")
	}
	if m.Density <= 0 || m.SpecificHeat <= 0 || m.Conductivity <= 0 {
		return fmt.Errorf("material %q: properties must be positive", m.Name)
	}
	return nil
}

type Catalog struct {
	materials map[string]Material
}

// Load 解析 json 格式的物性参数表
func Load(data []byte) (*Catalog, error) {
	var list []Material
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse material catalog: %w", err)
	}
	c := &Catalog{materials: make(map[string]Material, len(list))}
	for _, m := range list {
		if err := m.validate(); err != nil {
			return nil, err
		}
		key := normalize(m.Name)
		if _, ok := c.materials[key]; ok {
			return nil, fmt.Errorf("material %q defined twice", m.Name)
		}
		c.materials[key] = m
	}
	log.WithField("materials", len(c.materials)).Debug("物性参数表加载完成")
	return c, nil
}

// Default 返回内置的物性参数表
func Default() *Catalog {
	c, err := Load(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Lookup(name string) (Material, error) {
	m, ok := c.materials[normalize(name)]
	if !ok {
		return Material{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// Names 按字母顺序
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.materials))
	for _, m := range c.materials {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
