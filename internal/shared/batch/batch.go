// Package batch は一括インサートのバッチ境界を計算します。
package batch

// MaxBindParams はPostgreSQLが1ステートメントで受け付けるバインドパラメータの上限です。
// 別のストアを対象にする場合は Plan ではなく PlanWithLimit を使用してください。
const MaxBindParams = 32767

// Range は [Start, End) の半開区間でレコードのインデックス範囲を表します。
// End は総レコード数を超えることがあるため、呼び出し側はスライスでクランプします。
type Range struct {
	Start int
	End   int
}

// Plan は1レコードあたりのカラム数と総レコード数から、
// 1回の書き込みが MaxBindParams を超えないようにバッチ範囲の列を返します。
func Plan(fieldsPerRow, total int) []Range {
	return PlanWithLimit(MaxBindParams, fieldsPerRow, total)
}

// PlanWithLimit は任意のパラメータ上限でバッチ範囲を計算します。
// total が 0 の場合は空のスライスを返します。
func PlanWithLimit(limit, fieldsPerRow, total int) []Range {
	if total <= 0 || fieldsPerRow <= 0 {
		return nil
	}
	stride := limit / fieldsPerRow
	if stride < 1 {
		stride = 1
	}
	ranges := make([]Range, 0, total/stride+1)
	for start := 0; start < total; start += stride {
		ranges = append(ranges, Range{Start: start, End: start + stride})
	}
	return ranges
}

// Clamp は範囲の End を total に収めた値を返します。
func (r Range) Clamp(total int) (int, int) {
	end := r.End
	if end > total {
		end = total
	}
	return r.Start, end
}
