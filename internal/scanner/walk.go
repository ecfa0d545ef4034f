// Package scanner 提供文件发现与并发分析调度能力。
// 该层负责目录遍历、忽略规则、任务分片和结果聚合，不负责语法解析细节。
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"gocod/internal/ignore"
)

const gitignoreName = ".gitignore"

// ScanOptions 是文件发现的选项。
type ScanOptions struct {
	// Ignore 是命令行与配置给出的外部忽略规则。
	Ignore ignore.Set
	Logger zerolog.Logger
}

// rootResult 是单个根路径的发现结果。
type rootResult struct {
	files    []string
	patterns ignore.Set
}

// Scan 从多个根路径收集文件列表。
//
// 约束说明：
// - 目录按深度优先、名称顺序遍历，以 . 开头的条目被跳过
// - 每个目录先读取 .gitignore，规则锚定到该目录
// - 遍历结束后统一过滤一次，因此规则与文件的发现顺序无关
// - 直接给出的文件路径原样加入；不存在的根路径记录警告后跳过
func Scan(ctx context.Context, roots []string, opts ScanOptions) ([]string, error) {
	results := make([]rootResult, len(roots))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, root := range roots {
		group.Go(func() error {
			result, err := scanRoot(groupCtx, root, opts.Logger)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var files []string
	patterns := append(ignore.Set(nil), opts.Ignore...)
	for _, result := range results {
		files = append(files, result.files...)
		patterns = append(patterns, result.patterns...)
	}

	filtered := patterns.Filter(files)
	opts.Logger.Debug().
		Int("discovered", len(files)).
		Int("ignored", len(files)-len(filtered)).
		Int("patterns", len(patterns)).
		Msg("file discovery finished")
	return filtered, nil
}

// scanRoot 处理单个根路径。
func scanRoot(ctx context.Context, root string, logger zerolog.Logger) (rootResult, error) {
	var result rootResult

	info, err := os.Stat(root)
	if err != nil {
		logger.Warn().Err(err).Str("root", root).Msg("skip unreadable path")
		return result, nil
	}

	if !info.IsDir() {
		result.files = append(result.files, root)
		return result, nil
	}

	if err := walkDir(ctx, root, &result, logger); err != nil {
		return rootResult{}, err
	}
	logger.Debug().Str("root", root).Int("files", len(result.files)).Msg("root scanned")
	return result, nil
}

// walkDir 递归遍历目录。
func walkDir(ctx context.Context, dir string, result *rootResult, logger zerolog.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	patterns, err := readGitignore(dir)
	if err != nil {
		return err
	}
	result.patterns = append(result.patterns, patterns...)

	// os.ReadDir 已按文件名排序
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn().Err(err).Str("path", dir).Msg("skip unreadable directory")
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == "" || name[0] == '.' {
			continue
		}
		path := filepath.Join(dir, name)

		switch {
		case entry.IsDir():
			if err := walkDir(ctx, path, result, logger); err != nil {
				return err
			}
		case entry.Type()&fs.ModeSymlink != 0:
			// 指向目录的符号链接不跟随，避免环路
			target, statErr := os.Stat(path)
			if statErr != nil || target.IsDir() {
				logger.Debug().Str("path", path).Msg("skip symlink")
				continue
			}
			result.files = append(result.files, path)
		default:
			result.files = append(result.files, path)
		}
	}
	return nil
}

// readGitignore 读取 dir 下的 .gitignore，不存在时返回空规则。
func readGitignore(dir string) (ignore.Set, error) {
	path := filepath.Join(dir, gitignoreName)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	return ignore.ParseGitignore(dir, file)
}
