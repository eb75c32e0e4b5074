// Package fuzztests houses Go fuzz harnesses for the alignment pipeline
// (bytes -> source.File -> align.Run -> bytes). Its goal is to smoke test
// robustness and guard against panics on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через source и align, проверяя
// инварианты из internal/testkit.
//
// Не делает: запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/align, internal/testkit.

package fuzztests
