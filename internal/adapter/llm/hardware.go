package llm

import (
	"context"
	"encoding/json"
	"log"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// GPUInfo GPU 探测结果，决定 Ollama 推理参数档位
type GPUInfo struct {
	Available     bool
	Type          string // nvidia / amd / apple / intel / qualcomm / none
	Name          string
	VRAMMB        int
	DriverVersion string
	OllamaSupport bool // Ollama 能否用上这块卡
}

const gpuProbeTimeout = 10 * time.Second

// DetectGPU 按平台逐一探测显卡
// 探测失败一律视为无 GPU，分类流程退回 CPU 档位继续跑
func DetectGPU() GPUInfo {
	info := GPUInfo{Type: "none"}

	// NVIDIA: nvidia-smi 在所有平台都可能存在，优先探测
	if out, err := runProbe("nvidia-smi",
		"--query-gpu=name,memory.total,driver_version", "--format=csv,noheader,nounits"); err == nil {
		parts := strings.Split(strings.TrimSpace(out), ", ")
		if len(parts) >= 3 {
			info.Available = true
			info.Type = "nvidia"
			info.Name = strings.TrimSpace(parts[0])
			if vram, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
				info.VRAMMB = int(vram)
			}
			info.DriverVersion = strings.TrimSpace(parts[2])
			info.OllamaSupport = true
			return info
		}
	}

	switch runtime.GOOS {
	case "linux":
		// AMD ROCm
		if out, err := runProbe("rocm-smi", "--showproductname"); err == nil && strings.Contains(out, "GPU") {
			info.Available = true
			info.Type = "amd"
			info.Name = "AMD ROCm GPU"
			info.OllamaSupport = true
		}
	case "darwin":
		// Apple Silicon 走 Metal
		if out, err := runProbe("sysctl", "-n", "machdep.cpu.brand_string"); err == nil {
			cpu := strings.TrimSpace(out)
			if strings.Contains(cpu, "Apple") {
				info.Available = true
				info.Type = "apple"
				info.Name = cpu
				info.OllamaSupport = true
			}
		}
	case "windows":
		info = detectWindowsGPU()
	}
	return info
}

// detectWindowsGPU Windows 上通过 WMI 读显卡信息
// AMD/Qualcomm/Intel 集显在 Windows 上 Ollama 都用不了，只标记不启用
func detectWindowsGPU() GPUInfo {
	info := GPUInfo{Type: "none"}
	out, err := runProbe("powershell", "-Command",
		"Get-WmiObject Win32_VideoController | Select-Object -First 1 Name, AdapterRAM, DriverVersion | ConvertTo-Json")
	if err != nil {
		return info
	}

	var gpu struct {
		Name          string  `json:"Name"`
		AdapterRAM    float64 `json:"AdapterRAM"`
		DriverVersion string  `json:"DriverVersion"`
	}
	if err := json.Unmarshal([]byte(out), &gpu); err != nil {
		return info
	}

	info.Name = gpu.Name
	info.DriverVersion = gpu.DriverVersion
	info.VRAMMB = int(gpu.AdapterRAM / (1024 * 1024))

	upper := strings.ToUpper(gpu.Name)
	switch {
	case strings.Contains(upper, "NVIDIA"):
		info.Available = true
		info.Type = "nvidia"
		info.OllamaSupport = true
	case strings.Contains(upper, "AMD") || strings.Contains(upper, "RADEON"):
		info.Available = true
		info.Type = "amd"
	case strings.Contains(upper, "QUALCOMM") || strings.Contains(upper, "ADRENO"):
		info.Available = true
		info.Type = "qualcomm"
	case strings.Contains(upper, "INTEL"):
		info.Available = true
		info.Type = "intel"
	}
	return info
}

func runProbe(name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gpuProbeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", exec.ErrNotFound
	}
	return string(out), nil
}

// OllamaOptions Ollama 推理选项，按 GPU 能力自适应
type OllamaOptions struct {
	Temperature     float64
	NumPredict      int // 单条分类输出长度
	NumPredictBatch int // 批量分类输出长度
	NumCtx          int
	NumThread       int
	NumGPU          int // 999 表示全部层上卡，0 禁用 GPU
}

// AutoOptions 按探测结果给出推理档位
func AutoOptions(gpu GPUInfo) OllamaOptions {
	opts := OllamaOptions{Temperature: 0.1}
	if gpu.OllamaSupport {
		opts.NumGPU = 999
		opts.NumCtx = 4096
		opts.NumPredict = 200
		opts.NumPredictBatch = 600
		opts.NumThread = 4
	} else {
		opts.NumGPU = 0
		opts.NumCtx = 2048
		opts.NumPredict = 150
		opts.NumPredictBatch = 500
		opts.NumThread = runtime.NumCPU()
		if opts.NumThread > 8 {
			opts.NumThread = 8
		}
	}
	return opts
}

// SetupOllama 按 GPU 配置（auto/on/off）探测硬件并装配本地提供商
// 返回的 bool 表示是否启用了 GPU 加速（决定默认并发数）
func SetupOllama(baseURL, model, gpuMode string) (*OllamaProvider, bool) {
	var gpu GPUInfo
	switch gpuMode {
	case "off":
		gpu = GPUInfo{Type: "none"}
	case "on":
		gpu = DetectGPU()
		// 强制开启时不管探测结果，直接按 GPU 档位配置
		gpu.OllamaSupport = true
	default:
		gpu = DetectGPU()
	}
	opts := AutoOptions(gpu)
	logGPUStatus(gpu, opts)
	return NewOllama(baseURL, model, opts), gpu.OllamaSupport
}

func logGPUStatus(gpu GPUInfo, opts OllamaOptions) {
	if gpu.OllamaSupport {
		log.Printf("[llm] 🚀 GPU 加速已启用: %s", gpu.Name)
		if gpu.VRAMMB > 0 {
			log.Printf("[llm] 💾 显存: %d MB", gpu.VRAMMB)
		}
		return
	}
	name := gpu.Name
	if name == "" {
		name = "未检测到 GPU"
	}
	log.Printf("[llm] ⚠️ CPU 模式运行 (%s)", name)
	log.Printf("[llm] ⚙️ CPU 线程数: %d", opts.NumThread)
}
