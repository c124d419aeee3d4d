package main

import (
	"fmt"
	"io"
	"os"
)

// stdinName 代表標準輸入的參數
const stdinName = "-"

// input 一份待處理的檔案
type input struct {
	name string
	data []byte
}

// readInputs 讀取所有參數檔案；沒有參數時讀標準輸入
func readInputs(stdin io.Reader, args []string) ([]input, error) {
	if len(args) == 0 {
		args = []string{stdinName}
	}

	out := make([]input, 0, len(args))
	for _, name := range args {
		var (
			data []byte
			err  error
		)
		if name == stdinName {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		out = append(out, input{name: name, data: data})
	}
	return out, nil
}
