package app

// focusOrder is the tab cycle. The grade footer displays but never focuses.
var focusOrder = [...]Panel{PanelCourses, PanelAssignments, PanelRoster}

// nextPanel moves focus forward, wrapping to the first panel after the last.
func nextPanel(p Panel) Panel {
	for i, cand := range focusOrder {
		if cand == p {
			return focusOrder[(i+1)%len(focusOrder)]
		}
	}
	return focusOrder[0]
}

// prevPanel moves focus backward, wrapping to the last panel before the
// first.
func prevPanel(p Panel) Panel {
	for i, cand := range focusOrder {
		if cand == p {
			return focusOrder[(i-1+len(focusOrder))%len(focusOrder)]
		}
	}
	return focusOrder[0]
}

// moveSel moves the focused panel's selection by delta, clamped to the
// narrowed row range.
func (m *Model) moveSel(delta int) {
	p := m.focus
	m.sel[p] += delta
	m.clampSel(p)
}

// clampSel pins the panel's selection inside its current result range. Rows
// shrink when a query settles or a filter tightens; the selection follows the
// last row rather than pointing past it.
func (m *Model) clampSel(p Panel) {
	n := m.resultsLen(p)
	if m.sel[p] >= n {
		m.sel[p] = n - 1
	}
	if m.sel[p] < 0 {
		m.sel[p] = 0
	}
}

// selFor returns the selection to draw: only the focused panel shows its
// cursor.
func (m Model) selFor(p Panel) int {
	if m.focus != p {
		return -1
	}
	return m.sel[p]
}
