// Package cli implements the command-line conversion workflow.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"vectordeck/internal/deck"
	"vectordeck/internal/handler"
	"vectordeck/internal/layout"
	"vectordeck/internal/normalize"
	"vectordeck/internal/pipeline"
)

// RunConvert scans the given paths, converts every supported document, and
// writes the assembled deck.
func RunConvert(args []string) {
	output := "vectordeck.pptx"
	canvasName := "widescreen"
	var paths []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--output", "-o":
			if i+1 >= len(args) {
				fmt.Println("错误: --output 需要指定文件路径")
				os.Exit(1)
			}
			output = args[i+1]
			i++
		case "--canvas":
			if i+1 >= len(args) {
				fmt.Println("错误: --canvas 需要指定画布 (widescreen | standard)")
				os.Exit(1)
			}
			canvasName = args[i+1]
			i++
		default:
			paths = append(paths, args[i])
		}
	}

	if len(paths) == 0 {
		fmt.Println("错误: 请指定至少一个文件或目录")
		fmt.Println("用法: vectordeck convert [--canvas widescreen|standard] [-o <输出文件>] <路径> [...]")
		os.Exit(1)
	}

	// Collect all convertible files
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Printf("警告: 无法访问 %s: %v\n", path, err)
			continue
		}
		if !info.IsDir() {
			if handler.IsSupportedFile(path) {
				files = append(files, path)
			} else {
				fmt.Printf("跳过: 不支持的文件格式 %s\n", path)
			}
			continue
		}
		filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				fmt.Printf("警告: 无法访问 %s: %v\n", p, err)
				return nil
			}
			if fi.IsDir() {
				return nil
			}
			if handler.IsSupportedFile(fi.Name()) {
				files = append(files, p)
			}
			return nil
		})
	}

	if len(files) == 0 {
		fmt.Println("未找到支持的文件")
		return
	}

	fmt.Printf("找到 %d 个文件，开始转换...\n\n", len(files))

	inputs := make([]pipeline.InputFile, 0, len(files))
	for i, filePath := range files {
		fmt.Printf("[%d/%d] %s ... ", i+1, len(files), filePath)
		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Printf("读取失败: %v\n", err)
			continue
		}
		fmt.Println("已加载")
		inputs = append(inputs, pipeline.InputFile{Name: filepath.Base(filePath), Data: data})
	}
	if len(inputs) == 0 {
		fmt.Println("没有可读取的文件")
		os.Exit(1)
	}

	canvas := layout.ByName(canvasName)
	conv := pipeline.NewConverter(canvas, normalize.DefaultOptions())
	results := conv.ConvertBatch(context.Background(), inputs)

	out, err := os.Create(output)
	if err != nil {
		fmt.Printf("创建输出文件失败: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := deck.Write(out, results, canvas); err != nil {
		fmt.Printf("生成演示文稿失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n========== 转换报告 ==========")
	fmt.Printf("总文件数: %d\n", len(inputs))
	for _, res := range results {
		kind := "SVG"
		if res.Kind == pipeline.KindBinary {
			kind = "EMF"
		}
		fmt.Printf("  %s (%s, %.0f×%.0f)\n", res.Name, kind, res.Width, res.Height)
	}
	absPath, err := filepath.Abs(output)
	if err != nil {
		absPath = output
	}
	fmt.Printf("输出文件: %s\n", absPath)
	fmt.Println("==============================")
}
