package main

import (
	"fmt"
	"strings"

	"verity.dev/core/cube"
)

func parseCubeType(s string) (cube.Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "frozen":
		return cube.TypeFrozen, nil
	case "frozen_notify", "frozennotify":
		return cube.TypeFrozenNotify, nil
	case "pic":
		return cube.TypePIC, nil
	case "pic_notify", "picnotify":
		return cube.TypePICNotify, nil
	case "muc":
		return cube.TypeMUC, nil
	case "muc_notify", "mucnotify":
		return cube.TypeMUCNotify, nil
	case "pmuc":
		return cube.TypePMUC, nil
	case "pmuc_notify", "pmucnotify":
		return cube.TypePMUCNotify, nil
	default:
		return 0, fmt.Errorf("unknown cube type %q", s)
	}
}
