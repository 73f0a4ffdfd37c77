package errors_test

import (
	"fmt"
	"os"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
)

func ExampleWrap() {
	_, err := os.Open("/does/not/exist.png")
	err = errs.Wrap(errs.ErrCodeFileNotFound, err, "logo %s", "exist.png")

	fmt.Println(errs.GetCode(err))
	fmt.Println(errs.UserMessage(err))
	fmt.Println(errs.Is(err, errs.ErrCodeFileNotFound))
	// Output:
	// FILE_NOT_FOUND
	// logo exist.png
	// true
}

func ExampleValidateHexColor() {
	fmt.Println(errs.ValidateHexColor("#dddddd") == nil)
	fmt.Println(errs.GetCode(errs.ValidateHexColor("grey")))
	// Output:
	// true
	// INVALID_COLOR
}
