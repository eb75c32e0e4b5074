// Package align implements the alignment engine behind alignby.
//
// The engine walks the lines of a single file looking for marker directives
// (`align_by "= ;"`, `align_by sort "="`, `align_by stop`, ...). Lines that
// follow an alignment directive and contain its first delimiter form a group;
// every delimiter of the directive is then padded to a common column across
// the group, left to right, each delimiter consumed at most once per line.
//
// Назначение: чистое текстовое преобразование набора строк одного файла.
// Не делает: IO, поиск файлов, разбор синтаксиса языка.
package align
