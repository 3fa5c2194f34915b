package config

// BuiltinKeybindings returns the default action-to-chord bindings. These
// are always available; a user's file only needs to list the ones they
// want to change.
func BuiltinKeybindings() map[string]string {
	return map[string]string{
		"focus_left":          "Mod4-h",
		"focus_right":         "Mod4-l",
		"focus_up":            "Mod4-k",
		"focus_down":          "Mod4-j",
		"swap_left":           "Mod4-Shift-h",
		"swap_right":          "Mod4-Shift-l",
		"swap_up":             "Mod4-Shift-k",
		"swap_down":           "Mod4-Shift-j",
		"switch_workspace_1":  "Mod4-1",
		"switch_workspace_2":  "Mod4-2",
		"switch_workspace_3":  "Mod4-3",
		"switch_workspace_4":  "Mod4-4",
		"switch_workspace_5":  "Mod4-5",
		"switch_workspace_6":  "Mod4-6",
		"switch_workspace_7":  "Mod4-7",
		"switch_workspace_8":  "Mod4-8",
		"switch_workspace_9":  "Mod4-9",
		"move_to_workspace_1": "Mod4-Shift-1",
		"move_to_workspace_2": "Mod4-Shift-2",
		"move_to_workspace_3": "Mod4-Shift-3",
		"move_to_workspace_4": "Mod4-Shift-4",
		"move_to_workspace_5": "Mod4-Shift-5",
		"move_to_workspace_6": "Mod4-Shift-6",
		"move_to_workspace_7": "Mod4-Shift-7",
		"move_to_workspace_8": "Mod4-Shift-8",
		"move_to_workspace_9": "Mod4-Shift-9",
		"close":               "Mod4-q",
		"toggle_float":        "Mod4-space",
		"toggle_fullscreen":   "Mod4-f",
		"toggle_status_bar":   "Mod4-b",
		"flip_node":           "Mod4-r",
		"resize_horiz_grow":   "Mod4-Control-l",
		"resize_horiz_shrink": "Mod4-Control-h",
		"resize_vert_grow":    "Mod4-Control-j",
		"resize_vert_shrink":  "Mod4-Control-k",
		"move_monitor_left":   "Mod4-Control-Shift-h",
		"move_monitor_right":  "Mod4-Control-Shift-l",
		"exit":                "Mod4-Shift-e",
	}
}
