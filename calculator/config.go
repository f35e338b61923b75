package calculator

import (
	"gopkg.in/ini.v1"
)

// 求解器参数，从 conf/config.ini 的 [calculator] 读取
type Config struct {
	MaxSweeps      int     // Gauss-Seidel 最大迭代次数
	Tolerance      float64 // 收敛判定
	Workers        int     // 批量计算的 worker 数
	StabilityLimit float64 // 显式格式 Fourier 数上限
	HistoryFrames  int     // 服务端保留的最近温度场个数
}

func DefaultConfig() Config {
	return Config{
		MaxSweeps:      100,
		Tolerance:      1.0e-8,
		Workers:        4,
		StabilityLimit: 0.5,
		HistoryFrames:  64,
	}
}

// LoadConfig reads the [calculator] section. source is anything ini.Load
// accepts: a file name, []byte or io.Reader. Missing keys keep their defaults.
func LoadConfig(source interface{}) (Config, error) {
	file, err := ini.Load(source)
	if err != nil {
		return Config{}, err
	}
	cfg := loadCfg(file)
	if err = cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadCfg(file *ini.File) Config {
	def := DefaultConfig()
	section := file.Section("calculator")
	return Config{
		MaxSweeps:      section.Key("MaxSweeps").MustInt(def.MaxSweeps),
		Tolerance:      section.Key("Tolerance").MustFloat64(def.Tolerance),
		Workers:        section.Key("Workers").MustInt(def.Workers),
		StabilityLimit: section.Key("StabilityLimit").MustFloat64(def.StabilityLimit),
		HistoryFrames:  section.Key("HistoryFrames").MustInt(def.HistoryFrames),
	}
}

func (c Config) validate() error {
	switch {
	case c.MaxSweeps < 1:
		return invalid("max sweeps = %d, need at least 1", c.MaxSweeps)
	case !(c.Tolerance >= 0):
		return invalid("tolerance = %g, must not be negative", c.Tolerance)
	case c.Workers < 1:
		return invalid("workers = %d, need at least 1", c.Workers)
	case !(c.StabilityLimit > 0):
		return invalid("stability limit = %g, must be positive", c.StabilityLimit)
	case c.HistoryFrames < 0:
		return invalid("history frames = %d, must not be negative", c.HistoryFrames)
	}
	return nil
}
