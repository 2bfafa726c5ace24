package main

import "jpegbatch/cmd"

func main() {
	cmd.Execute()
}
