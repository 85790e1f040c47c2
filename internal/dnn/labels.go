package dnn

import "fmt"

// cocoLabels is indexed by the COCO category id (1 to 91) used by the
// TensorFlow object detection models. Unused ids keep their historical
// names.
var cocoLabels = [...]string{
	"background", "person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "street sign", "stop sign", "parking meter", "bench", "bird", "cat",
	"dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe", "hat", "backpack", "umbrella",
	"shoe", "eye glasses", "handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
	"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket", "bottle", "plate",
	"wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple", "sandwich", "orange", "broccoli",
	"carrot", "hot dog", "pizza", "donut", "cake", "chair", "couch", "potted plant", "bed", "mirror",
	"dining table", "window", "desk", "toilet", "door", "tv", "laptop", "mouse", "remote", "keyboard",
	"cell phone", "microwave", "oven", "toaster", "sink", "refrigerator", "blender", "book", "clock",
	"vase", "scissors", "teddy bear", "hair drier", "toothbrush", "hair brush",
}

// Label returns the COCO name for a class id, or "class_<id>" when unknown.
func Label(id int) string {
	if id >= 0 && id < len(cocoLabels) {
		return cocoLabels[id]
	}
	return fmt.Sprintf("class_%d", id)
}
