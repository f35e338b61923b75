package model

// 参考算例：3mm 厚的玻璃窗，室内 20℃，室外 -10℃

const (
	RefDensity      = 2200.0 // 玻璃密度 kg/m^3
	RefSpecificHeat = 840.0  // 比热容 J/(kg K)
	RefConductivity = 1.1    // 导热系数 W/(m K)
	RefThickness    = 3e-3   // 厚度 m
	RefTempLow      = 293.15 // x=0 边界温度 K
	RefTempHigh     = 263.15 // x=Thickness 边界温度 K
	RefNodes        = 16     // 节点数
	RefEndTime      = 0.5    // 计算终了时刻 s
	RefTimeStep     = 1e-3   // 时间步长 s
	RefOutputEvery  = 100    // 每 0.1s 输出一次
)

func ReferenceWindow() Window {
	return Window{
		Density:      RefDensity,
		SpecificHeat: RefSpecificHeat,
		Conductivity: RefConductivity,
		Thickness:    RefThickness,
		TempLow:      RefTempLow,
		TempHigh:     RefTempHigh,
	}
}

func ReferenceAnalysis() Analysis {
	return Analysis{
		Nodes:       RefNodes,
		EndTime:     RefEndTime,
		TimeStep:    RefTimeStep,
		OutputEvery: 1,
	}
}
