package main

import (
	"fmt"
	"image/png"
	"os"
	"strconv"

	"github.com/kovidgoyal/lottie"
	"github.com/kovidgoyal/lottie/pixconv"
)

var _ = fmt.Print

func main() {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}()
	if len(os.Args) < 5 {
		fmt.Fprintln(os.Stderr, "usage: lottie2png animation.json width height frame-index")
		os.Exit(1)
	}
	json_path := os.Args[1]
	width, err := strconv.Atoi(os.Args[2])
	if err != nil || width <= 0 {
		err = fmt.Errorf("invalid width: %s", os.Args[2])
		return
	}
	height, err := strconv.Atoi(os.Args[3])
	if err != nil || height <= 0 {
		err = fmt.Errorf("invalid height: %s", os.Args[3])
		return
	}
	frame, err := strconv.ParseUint(os.Args[4], 10, 32)
	if err != nil {
		err = fmt.Errorf("invalid frame index: %s", os.Args[4])
		return
	}
	anim, err := lottie.Open(json_path)
	if err != nil {
		return
	}
	surface := lottie.NewSurface(width, height)
	if err = anim.RenderSync(uint(frame), surface); err != nil {
		return
	}
	img, err := pixconv.ToNRGBA(surface.Pix, width, height)
	if err != nil {
		return
	}
	output_file := fmt.Sprintf("%s_%d.png", json_path, frame)
	out, err := os.OpenFile(output_file, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return
	}
	func() {
		defer out.Close()
		err = png.Encode(out, img)
	}()
	if err == nil {
		fmt.Println(output_file)
	}
}
