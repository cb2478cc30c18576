package debugui

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/flapper/ecs"
)

const maxRows = 200

// SpawnWindows adds the stats, entity and singleton windows to storage.
func SpawnWindows(storage *ecs.Storage) {
	storage.Spawn(ImguiItem{Render: func() { statsWindow(storage) }})
	storage.Spawn(ImguiItem{Render: func() { entityWindow(storage) }})
	storage.Spawn(ImguiItem{Render: func() { singletonWindow(storage) }})
}

func readTarget(storage *ecs.Storage) *Target {
	var target *Target
	if !storage.ReadSingleton(&target) || !target.Valid() {
		return nil
	}
	return target
}

func statsWindow(storage *ecs.Storage) {
	var history *FrameHistory
	storage.ReadSingleton(&history)
	target := readTarget(storage)

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 300), imgui.CondOnce)
	if !imgui.BeginV("Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	if history != nil && len(history.Samples) > 0 {
		imgui.Text(fmt.Sprintf("Frame: %.2f ms (%.0f FPS)", history.Average(), history.FPS()))
		imgui.PlotLinesFloatPtr("##frametime", &history.Samples[0], int32(len(history.Samples)))
	}
	if target == nil {
		imgui.Text("No world")
		return
	}

	stats := target.Storage.CollectStats()
	imgui.Separator()
	imgui.Text(target.Label)
	imgui.Text(fmt.Sprintf("Entities: %d  Archetypes: %d  Singletons: %d",
		stats.TotalEntityCount, stats.ArchetypeCount, stats.SingletonCount))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if target.Scheduler != nil && imgui.TreeNodeStr("Systems") {
		sched := target.Scheduler.GetStats()
		imgui.Text(fmt.Sprintf("Frames: %d", sched.Frames))
		if imgui.BeginTableV("SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()
			for _, s := range sched.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(s.Name)
				imgui.TableNextColumn()
				imgui.Text(s.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Archetypes") {
		if imgui.BeginTableV("ArchetypeTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("ID")
			imgui.TableSetupColumn("Components")
			imgui.TableSetupColumn("Entities")
			imgui.TableHeadersRow()
			for _, arch := range stats.ArchetypeBreakdown {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("0x%X", arch.ID))
				imgui.TableNextColumn()
				imgui.Text(strings.Join(arch.ComponentTypes, ", "))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", arch.EntityCount))
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}
}

func entityWindow(storage *ecs.Storage) {
	target := readTarget(storage)
	var sel *Selection
	if target == nil || !storage.ReadSingleton(&sel) {
		return
	}

	imgui.SetNextWindowPosV(imgui.NewVec2(340, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(450, 400), imgui.CondOnce)
	if !imgui.BeginV("Entities", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	imgui.InputTextWithHint("##filter", "Filter...", &sel.Filter, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		sel.Filter = ""
	}

	rows := FilterEntities(ListEntities(target.Storage), sel.Filter)
	imgui.Text(fmt.Sprintf("%d entities", len(rows)))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 2, tableFlags, imgui.NewVec2(0, 180), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()
		for _, row := range rows[:min(len(rows), maxRows)] {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprintf("%d", row.ID), sel.Entity == row.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				sel.Entity = row.ID
			}
			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.Components, ", "))
		}
		imgui.EndTable()
	}

	imgui.Separator()
	if sel.Entity == 0 || !target.Storage.Alive(sel.Entity) {
		imgui.Text("No entity selected")
		return
	}
	archetype := target.Storage.Archetype(sel.Entity.ArchetypeId())
	imgui.Text(fmt.Sprintf("Entity %d in 0x%X", sel.Entity, archetype.ID()))
	for _, typ := range archetype.Types() {
		inspect(typ, target.Storage.GetComponent(sel.Entity, typ))
	}
}

func singletonWindow(storage *ecs.Storage) {
	target := readTarget(storage)
	if target == nil {
		return
	}

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 320), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 270), imgui.CondOnce)
	if !imgui.BeginV("Singletons", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	for _, typ := range target.Storage.SingletonTypes() {
		inspect(typ, target.Storage.Singleton(typ))
	}
}

func inspect(typ reflect.Type, ptr any) {
	if ptr == nil || !imgui.TreeNodeStr(typ.String()) {
		return
	}
	for _, f := range Fields(ptr) {
		editField(f)
	}
	imgui.TreePop()
}

func editField(f Field) {
	v := f.Value
	label := "##" + f.Name
	if !v.CanSet() {
		imgui.Text(fmt.Sprintf("%s: %v", f.Name, v.Interface()))
		return
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := int32(v.Int())
		imgui.Text(f.Name)
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &n) {
			v.SetInt(int64(n))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := int32(v.Uint())
		imgui.Text(f.Name)
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &n) && n >= 0 {
			v.SetUint(uint64(n))
		}
	case reflect.Float32, reflect.Float64:
		x := float32(v.Float())
		imgui.Text(f.Name)
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &x) {
			v.SetFloat(float64(x))
		}
	case reflect.Bool:
		b := v.Bool()
		if imgui.Checkbox(f.Name, &b) {
			v.SetBool(b)
		}
	case reflect.String:
		s := v.String()
		imgui.Text(f.Name)
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(label, "", &s, imgui.InputTextFlagsNone, nil) {
			v.SetString(s)
		}
	case reflect.Slice, reflect.Map:
		imgui.Text(fmt.Sprintf("%s: [%d items]", f.Name, v.Len()))
	default:
		imgui.Text(fmt.Sprintf("%s: %v", f.Name, v.Interface()))
	}
}
