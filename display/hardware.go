// Package display renders hardware details and tabular data for terminals
// and HTML reports.
package display

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/YuminosukeSato/edakit/pkg/errors"
	"github.com/YuminosukeSato/edakit/pkg/log"
)

const gib = 1 << 30

// CPUInfo describes the host processor.
type CPUInfo struct {
	Processor     string
	Machine       string
	System        string
	PhysicalCores int
	LogicalCores  int
}

// MemoryInfo is the virtual memory usage in bytes.
type MemoryInfo struct {
	Total     uint64
	Available uint64
	Used      uint64
	Percent   float64
}

// GPU is one device reported by nvidia-smi. Memory is in MiB, Load in [0, 1].
type GPU struct {
	Name        string
	MemoryTotal float64
	MemoryFree  float64
	MemoryUsed  float64
	Load        float64
}

// HardwareInfo is a snapshot of the machine running the analysis.
type HardwareInfo struct {
	CPU    CPUInfo
	Memory MemoryInfo
	GPUs   []GPU
	// GPUErr is set when GPUs could not be queried.
	GPUErr error
}

// Probe reads hardware details.
type Probe interface {
	CPU(ctx context.Context) (CPUInfo, error)
	Memory(ctx context.Context) (MemoryInfo, error)
	GPUs(ctx context.Context) ([]GPU, error)
}

// CollectHardware queries p. CPU and memory failures are returned; a GPU
// failure is recorded in GPUErr.
func CollectHardware(ctx context.Context, p Probe) (*HardwareInfo, error) {
	c, err := p.CPU(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "query cpu")
	}
	m, err := p.Memory(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "query memory")
	}
	info := &HardwareInfo{CPU: c, Memory: m}
	info.GPUErr = errors.SafeExecute("display.GPUs", func() error {
		var err error
		info.GPUs, err = p.GPUs(ctx)
		return err
	})
	if info.GPUErr != nil {
		log.GetLoggerWithName("display").Debug("GPU query failed", "reason", info.GPUErr.Error())
	}
	return info, nil
}

// SystemProbe reads the local machine through gopsutil and nvidia-smi.
type SystemProbe struct {
	// SMIPath overrides the nvidia-smi executable.
	SMIPath string
}

// CPU implements Probe.
func (s SystemProbe) CPU(ctx context.Context) (CPUInfo, error) {
	h, err := host.InfoWithContext(ctx)
	if err != nil {
		return CPUInfo{}, errors.WithStack(err)
	}
	out := CPUInfo{
		Machine: h.KernelArch,
		System:  strings.TrimSpace(h.OS + " " + h.PlatformVersion),
	}
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		out.Processor = infos[0].ModelName
	}
	if out.PhysicalCores, err = cpu.CountsWithContext(ctx, false); err != nil {
		return CPUInfo{}, errors.WithStack(err)
	}
	if out.LogicalCores, err = cpu.CountsWithContext(ctx, true); err != nil {
		return CPUInfo{}, errors.WithStack(err)
	}
	return out, nil
}

// Memory implements Probe.
func (s SystemProbe) Memory(ctx context.Context) (MemoryInfo, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryInfo{}, errors.WithStack(err)
	}
	return MemoryInfo{Total: vm.Total, Available: vm.Available, Used: vm.Used, Percent: vm.UsedPercent}, nil
}

// GPUs implements Probe. It returns errors.ErrNoGPUTool when nvidia-smi is
// not installed.
func (s SystemProbe) GPUs(ctx context.Context) ([]GPU, error) {
	bin := s.SMIPath
	if bin == "" {
		bin = "nvidia-smi"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, errors.ErrNoGPUTool
	}
	cmd := exec.CommandContext(ctx, path,
		"--query-gpu=name,memory.total,memory.free,memory.used,utilization.gpu",
		"--format=csv,noheader,nounits")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrapf(err, "nvidia-smi: %s", strings.TrimSpace(stderr.String()))
	}
	return parseGPUQuery(out)
}

// parseGPUQuery reads nvidia-smi csv,noheader,nounits output.
func parseGPUQuery(out []byte) ([]GPU, error) {
	var gpus []GPU
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 5 {
			return nil, errors.NewValueError("display.parseGPUQuery", fmt.Sprintf("expected 5 fields, got %d in %q", len(fields), line))
		}
		nums := make([]float64, 4)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "parse %q", line)
			}
			nums[i] = v
		}
		gpus = append(gpus, GPU{
			Name:        strings.TrimSpace(fields[0]),
			MemoryTotal: nums[0],
			MemoryFree:  nums[1],
			MemoryUsed:  nums[2],
			Load:        nums[3] / 100,
		})
	}
	return gpus, nil
}

// WriteHardware prints info in CPU, memory and GPU sections.
func WriteHardware(w io.Writer, info *HardwareInfo) error {
	var b strings.Builder
	b.WriteString("CPU Info:\n")
	fmt.Fprintf(&b, "Processor: %s\n", info.CPU.Processor)
	fmt.Fprintf(&b, "Machine: %s\n", info.CPU.Machine)
	fmt.Fprintf(&b, "System: %s\n", info.CPU.System)
	fmt.Fprintf(&b, "Cores: %d physical, %d logical\n", info.CPU.PhysicalCores, info.CPU.LogicalCores)

	b.WriteString("\nMemory Info:\n")
	fmt.Fprintf(&b, "Total: %.2f GB\n", float64(info.Memory.Total)/gib)
	fmt.Fprintf(&b, "Available: %.2f GB\n", float64(info.Memory.Available)/gib)
	fmt.Fprintf(&b, "Used: %.2f GB\n", float64(info.Memory.Used)/gib)
	fmt.Fprintf(&b, "Percentage: %.1f%%\n", info.Memory.Percent)

	switch {
	case errors.Is(info.GPUErr, errors.ErrNoGPUTool):
		b.WriteString("\nnvidia-smi is not installed. GPU information will not be displayed.\n")
	case info.GPUErr != nil:
		fmt.Fprintf(&b, "\nGPU information unavailable: %v\n", info.GPUErr)
	default:
		b.WriteString("\nGPU Info:\n")
		if len(info.GPUs) == 0 {
			b.WriteString("No GPU found\n")
		}
		for _, g := range info.GPUs {
			fmt.Fprintf(&b, "GPU: %s\n", g.Name)
			fmt.Fprintf(&b, "Total Memory: %.2f GB\n", g.MemoryTotal/1024)
			fmt.Fprintf(&b, "Free Memory: %.2f GB\n", g.MemoryFree/1024)
			fmt.Fprintf(&b, "Used Memory: %.2f GB\n", g.MemoryUsed/1024)
			fmt.Fprintf(&b, "GPU Load: %.2f%%\n", g.Load*100)
		}
	}
	_, err := io.WriteString(w, b.String())
	return errors.WithStack(err)
}
