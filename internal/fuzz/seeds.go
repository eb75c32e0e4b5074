package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

var builtinSeeds = []string{
	"",
	"// align_by \"=\"\nlet a = 1;\nlet bbb = 2;\n",
	"// align_by sort \"= ;\"\nzz = 1 ;\na = 22;\n",
	"# align_by \"\\\" :\"\n\"k\" : 1\n\"long\" : 2\n",
	"// align_by pause\n// align_by \"=\"\nx = 1\n// align_by resume\n",
	"// align_by \"=\"\r\n\ta\t= 1\r\nbb = 2\r\n// align_by stop\r\nc = 3",
	"\ufeff// align_by \"=>\"\n日本 => 1\nx => 2\n",
	"// align_by \"=\nunterminated = 1\n",
	"// align_by cancel_file\n// align_by \"=\"\na = 1\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("testdata", "seeds")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все файлы как есть
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}
