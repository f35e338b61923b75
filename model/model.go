package model

// 窗户玻璃（平板）的物性参数和几何参数
// 1. 密度 kg/m^3
// 2. 比热容 J/(kg K)
// 3. 导热系数 W/(m K)
// 4. 厚度 m
// 5. 两侧边界温度 K，TempLow 对应 x=0，TempHigh 对应 x=Thickness

type Window struct {
	Density      float64 `json:"density"`
	SpecificHeat float64 `json:"specific_heat"`
	Conductivity float64 `json:"conductivity"`
	Thickness    float64 `json:"thickness"`
	TempLow      float64 `json:"temp_low"`
	TempHigh     float64 `json:"temp_high"`
}

// Diffusivity 温度传导率 alpha = lambda / (rho * c)
func (w Window) Diffusivity() float64 {
	return w.Conductivity / (w.Density * w.SpecificHeat)
}

// 计算条件
type Analysis struct {
	Nodes    int     `json:"nodes"`     // 节点数，包含两个边界节点
	EndTime  float64 `json:"end_time"`  // 计算终了时刻 s
	TimeStep float64 `json:"time_step"` // 时间步长 s
	// 每隔多少步记录一次结果，0 等同于 1
	OutputEvery int `json:"output_every"`
}

// 一个节点在某一时刻的温度
type Sample struct {
	Time        float64 `json:"time"`
	Position    float64 `json:"position"`
	Temperature float64 `json:"temperature"`
}

// 某一时间步的整个温度场
type Frame struct {
	Step         int       `json:"step"`
	Time         float64   `json:"time"`
	Temperatures []float64 `json:"temperatures"`
}

// Env 是前端设置计算条件时发送的内容
type Env struct {
	Material string   `json:"material,omitempty"`
	Method   string   `json:"method"`
	Window   Window   `json:"window"`
	Analysis Analysis `json:"analysis"`
}

// 运行结束后的统计信息
type RunInfo struct {
	RunId        string  `json:"run_id"`
	Method       string  `json:"method"`
	Steps        int     `json:"steps"`
	Frames       int     `json:"frames"`
	Fourier      float64 `json:"fourier"`
	NonConverged int     `json:"non_converged"`
	MaxSweeps    int     `json:"max_sweeps"`
	ElapsedMs    int64   `json:"elapsed_ms"`
}

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
